// Package testkit provides in-memory adapters and fixtures for exercising
// the engine without Postgres or live challenger/defender parties.
package testkit

import (
	"context"
	"encoding/json"
	"sync"

	"gauntlet/domain/core"
	"gauntlet/domain/exchange"
	"gauntlet/domain/hypothesis"
	"gauntlet/domain/routing"
	"gauntlet/domain/tournament"
)

// TestKit bundles the in-memory repository with scripted arena parties.
type TestKit struct {
	repo *InMemoryTournamentRepository
}

// NewTestKit creates a fresh kit with empty storage.
func NewTestKit() *TestKit {
	return &TestKit{repo: NewInMemoryTournamentRepository()}
}

// Repository returns the shared in-memory repository.
func (k *TestKit) Repository() *InMemoryTournamentRepository {
	return k.repo
}

// InMemoryTournamentRepository is a mutex-guarded map standing in for the
// Postgres adapter. Stored values are deep copies so callers cannot mutate
// ledgers behind the repository's back.
type InMemoryTournamentRepository struct {
	mu           sync.RWMutex
	byID         map[core.TournamentID]*tournament.Tournament
	byHypothesis map[core.HypothesisID]core.TournamentID
	order        []core.TournamentID
}

func NewInMemoryTournamentRepository() *InMemoryTournamentRepository {
	return &InMemoryTournamentRepository{
		byID:         make(map[core.TournamentID]*tournament.Tournament),
		byHypothesis: make(map[core.HypothesisID]core.TournamentID),
	}
}

func (r *InMemoryTournamentRepository) Save(ctx context.Context, t *tournament.Tournament) error {
	cp, err := cloneTournament(t)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.byID[t.ID] = cp
	r.byHypothesis[t.Hypothesis.ID] = t.ID
	return nil
}

func (r *InMemoryTournamentRepository) Get(ctx context.Context, id core.TournamentID) (*tournament.Tournament, error) {
	r.mu.RLock()
	t, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, core.NewNotFoundError("tournament", id.String())
	}
	return cloneTournament(t)
}

func (r *InMemoryTournamentRepository) GetByHypothesis(ctx context.Context, id core.HypothesisID) (*tournament.Tournament, error) {
	r.mu.RLock()
	tid, ok := r.byHypothesis[id]
	r.mu.RUnlock()
	if !ok {
		return nil, core.NewNotFoundError("tournament", id.String())
	}
	return r.Get(ctx, tid)
}

func (r *InMemoryTournamentRepository) List(ctx context.Context, state tournament.State, limit int) ([]*tournament.Tournament, error) {
	if limit <= 0 {
		limit = 100
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*tournament.Tournament, 0, len(r.order))
	for _, id := range r.order {
		t := r.byID[id]
		if state != "" && t.State != state {
			continue
		}
		cp, err := cloneTournament(t)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// cloneTournament round-trips through JSON, the same representation the
// Postgres adapter persists.
func cloneTournament(t *tournament.Tournament) (*tournament.Tournament, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	var cp tournament.Tournament
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

// ScriptedChallenger replays a fixed sequence of critiques. When the script
// runs out it repeats the last entry. Critique IDs and the cited revision
// are stamped at call time so each round stays well-formed.
type ScriptedChallenger struct {
	mu     sync.Mutex
	script []exchange.Critique
	next   int
}

func NewScriptedChallenger(script ...exchange.Critique) *ScriptedChallenger {
	return &ScriptedChallenger{script: script}
}

func (c *ScriptedChallenger) Critique(ctx context.Context, h hypothesis.Hypothesis) (exchange.Critique, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.script) == 0 {
		return exchange.Critique{}, core.NewMalformedInputError("challenger script is empty")
	}
	crit := c.script[c.next]
	if c.next < len(c.script)-1 {
		c.next++
	}
	crit.ID = core.NewCritiqueID()
	crit.HypothesisID = h.ID
	crit.Revision = h.Revision
	crit.SubmittedAt = core.Now()
	return crit, nil
}

// ScriptedDefender replays defenses the same way, pairing each with the
// critique it answers.
type ScriptedDefender struct {
	mu     sync.Mutex
	script []exchange.Defense
	next   int
}

func NewScriptedDefender(script ...exchange.Defense) *ScriptedDefender {
	return &ScriptedDefender{script: script}
}

func (d *ScriptedDefender) Defend(ctx context.Context, h hypothesis.Hypothesis, critique exchange.Critique) (exchange.Defense, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.script) == 0 {
		return exchange.Defense{}, core.NewMalformedInputError("defender script is empty")
	}
	def := d.script[d.next]
	if d.next < len(d.script)-1 {
		d.next++
	}
	def.ID = core.NewDefenseID()
	def.CritiqueID = critique.ID
	def.SubmittedAt = core.Now()
	return def, nil
}

// EquationChallenger cites one fixed equation per hypothesis, keyed by ID.
// Safe under concurrent tournaments since the critique depends only on the
// hypothesis it is asked about.
type EquationChallenger struct {
	Equations map[core.HypothesisID]string
}

func (c EquationChallenger) Critique(ctx context.Context, h hypothesis.Hypothesis) (exchange.Critique, error) {
	eq, ok := c.Equations[h.ID]
	if !ok {
		return exchange.Critique{}, core.NewMalformedInputError("no scripted equation for hypothesis " + h.ID.String())
	}
	return exchange.Critique{
		ID:             core.NewCritiqueID(),
		HypothesisID:   h.ID,
		Revision:       h.Revision,
		Description:    "the stated balance does not hold dimensionally",
		SeverityHint:   exchange.SeverityModerate,
		CitedEquations: []string{eq},
		SubmittedAt:    core.Now(),
	}, nil
}

// RederivingDefender refutes every critique by re-deriving its first cited
// equation, conceding when the critique cites nothing checkable.
type RederivingDefender struct{}

func (RederivingDefender) Defend(ctx context.Context, h hypothesis.Hypothesis, critique exchange.Critique) (exchange.Defense, error) {
	def := exchange.Defense{
		ID:          core.NewDefenseID(),
		CritiqueID:  critique.ID,
		SubmittedAt: core.Now(),
	}
	if len(critique.CitedEquations) == 0 {
		def.Kind = exchange.DefenseAcknowledgment
		def.Evidence = "nothing checkable cited; conceding the point"
		return def, nil
	}
	def.Kind = exchange.DefenseRefutation
	def.Evidence = "re-derived the cited balance from the stated parameters"
	def.Calculation = &exchange.DimensionalClaim{Equation: critique.CitedEquations[0]}
	return def, nil
}

// FixedAdjudicator always returns the same root cause.
type FixedAdjudicator struct {
	Cause routing.RootCause
}

func (a FixedAdjudicator) Adjudicate(ctx context.Context, h hypothesis.Hypothesis, reason string) (routing.RootCause, error) {
	return a.Cause, nil
}

// HeatTransferHypothesis is the standard fixture: a convective cooling
// claim with a dimensionally consistent parameter set.
func HeatTransferHypothesis() hypothesis.Hypothesis {
	return hypothesis.Hypothesis{
		ID:    core.NewHypothesisID(),
		Claim: "Convective heat loss from the plate follows Q = h * A * dT across the tested range",
		Parameters: map[string]hypothesis.Quantity{
			"Q":  {Value: 1500, Unit: "W"},
			"h":  {Value: 25, Unit: "W/m^2/K"},
			"A":  {Value: 2.0, Unit: "m^2"},
			"dT": {Value: 30, Unit: "K"},
		},
		Stage: hypothesis.StageAnalytical,
	}
}

// DragForceHypothesis is a second fixture with a deliberately inconsistent
// drag coefficient unit, useful for exercising valid critiques.
func DragForceHypothesis() hypothesis.Hypothesis {
	return hypothesis.Hypothesis{
		ID:    core.NewHypothesisID(),
		Claim: "Drag on the body scales as F = Cd * rho * v^2 * A at high Reynolds number",
		Parameters: map[string]hypothesis.Quantity{
			"F":   {Value: 420, Unit: "N"},
			"Cd":  {Value: 0.47, Unit: "kg"},
			"rho": {Value: 1.2, Unit: "kg/m^3"},
			"v":   {Value: 30, Unit: "m/s"},
			"A":   {Value: 0.5, Unit: "m^2"},
		},
		Stage: hypothesis.StageAnalytical,
	}
}

// RefutationWithCalculation builds a refutation defense that re-derives the
// given equation.
func RefutationWithCalculation(equation, evidence string) exchange.Defense {
	return exchange.Defense{
		Kind:        exchange.DefenseRefutation,
		Evidence:    evidence,
		Calculation: &exchange.DimensionalClaim{Equation: equation},
	}
}

// DimensionalCritique builds a critique citing the given equation.
func DimensionalCritique(description, equation string, severity exchange.Severity) exchange.Critique {
	return exchange.Critique{
		Description:    description,
		SeverityHint:   severity,
		CitedEquations: []string{equation},
	}
}

// Package app orchestrates tournament rounds: classification, scoring,
// local routing, escalation, and the single-writer commit to the ledger.
package app

import (
	"context"
	"errors"
	"strings"

	"gauntlet/domain/core"
	"gauntlet/domain/exchange"
	"gauntlet/domain/hypothesis"
	"gauntlet/domain/routing"
	"gauntlet/domain/scoring"
	"gauntlet/domain/tournament"
	"gauntlet/internal"
	"gauntlet/internal/classifier"
	"gauntlet/ports"
)

// stalemateWindow mirrors the ledger's threshold; the service checks it
// prospectively so the completing rejection escalates instead of committing.
const stalemateWindow = 3

// TournamentService runs the per-round control flow. Rounds within one
// tournament are strictly sequential; the service holds no cross-tournament
// state beyond the shared budget.
type TournamentService struct {
	repo        ports.TournamentRepository
	adjudicator ports.AdjudicatorPort
	classifier  *classifier.Classifier
	scorer      *scoring.Engine
	budget      *Budget
	roundCost   int64
	log         *internal.Logger
}

// NewTournamentService wires the engine together. The scoring table arrives
// through the engine so tests can substitute alternates.
func NewTournamentService(
	repo ports.TournamentRepository,
	adjudicator ports.AdjudicatorPort,
	scorer *scoring.Engine,
	budget *Budget,
	roundCost int64,
	log *internal.Logger,
) *TournamentService {
	return &TournamentService{
		repo:        repo,
		adjudicator: adjudicator,
		classifier:  classifier.New(),
		scorer:      scorer,
		budget:      budget,
		roundCost:   roundCost,
		log:         log,
	}
}

// Open creates a tournament for a hypothesis entering adversarial review.
func (s *TournamentService) Open(ctx context.Context, h hypothesis.Hypothesis) (*tournament.Tournament, error) {
	t, err := tournament.New(h)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("tournament %s opened for hypothesis %s at stage %s", t.ID, h.ID, h.Stage)
	return t, nil
}

// RoundResult is what one evaluated round reports back to the caller.
type RoundResult struct {
	Tournament  *tournament.Tournament
	Round       tournament.Round
	Escalated   bool
	Termination *tournament.Termination
}

// PlayRound evaluates one complete (critique, defense) exchange and commits
// it. Classification errors are reported synchronously and leave the ledger
// untouched; the commit is all-or-nothing.
func (s *TournamentService) PlayRound(ctx context.Context, id core.TournamentID, crit exchange.Critique, def exchange.Defense) (*RoundResult, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsTerminal() {
		return nil, core.ErrTournamentTerminal
	}

	budgetExhausted := false
	if err := s.budget.Spend(s.roundCost); err != nil {
		if !errors.Is(err, core.ErrBudgetExhausted) {
			return nil, err
		}
		budgetExhausted = true
	}

	outcome, err := s.classifier.Classify(t.Hypothesis, crit, def)
	if err != nil {
		return nil, err
	}

	repairProposed := def.ProposesRepair()
	repairConsistent := false
	if repairProposed {
		repairConsistent = classifier.RepairPreservesConsistency(
			t.Hypothesis, *def.Patch, passedEquations(t))
	}

	deltas, reason := s.scorer.Score(outcome, repairProposed, repairConsistent)

	decision, err := routing.Route(t.Hypothesis.Stage, outcome, repairProposed, repairConsistent)
	if err != nil {
		return nil, err
	}
	if decision.Kind == routing.PassWithRepair {
		decision.Patch = def.Patch
	}

	escalated := false
	if why := s.escalationReason(t, decision, outcome, budgetExhausted); why != "" {
		cause, err := s.adjudicator.Adjudicate(ctx, t.Hypothesis, why)
		if err != nil {
			return nil, err
		}
		decision = resolveEscalation(cause, t.Hypothesis.Stage)
		escalated = true
		s.log.Warn("tournament %s escalated (%s), resolved to %s", t.ID, why, decision)
	}

	round := tournament.Round{
		Number:   t.RoundCount() + 1,
		Critique: crit,
		Defense:  def,
		Outcome:  outcome,
		Decision: decision,
		Events:   scoring.Events(deltas, reason, t.RoundCount()+1),
		PlayedAt: core.Now(),
	}

	if err := t.Record(round); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.log.Info("tournament %s round %d: outcome=%s decision=%s challenger=%+d defender=%+d",
		t.ID, round.Number, outcome.Kind, decision, deltas.Challenger, deltas.Defender)

	return &RoundResult{
		Tournament:  t,
		Round:       round,
		Escalated:   escalated,
		Termination: t.Termination(),
	}, nil
}

// PlayTimedOut records a round whose external exchange never arrived:
// timeout expiry surfaces as an ambiguous outcome and takes the normal
// escalation path. A synthetic exchange referencing the current revision
// is recorded so the round history stays well-formed.
func (s *TournamentService) PlayTimedOut(ctx context.Context, id core.TournamentID, party string) (*RoundResult, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsTerminal() {
		return nil, core.ErrTournamentTerminal
	}

	now := core.Now()
	crit := exchange.Critique{
		ID:           core.CritiqueID(core.NewID()),
		HypothesisID: t.Hypothesis.ID,
		Revision:     t.Hypothesis.Revision,
		Description:  "no critique submitted before the deadline",
		SubmittedAt:  now,
	}
	def := exchange.Defense{
		ID:          core.DefenseID(core.NewID()),
		CritiqueID:  crit.ID,
		Kind:        exchange.DefenseRefutation,
		Evidence:    "no defense submitted before the deadline",
		SubmittedAt: now,
	}

	outcome := exchange.Ambiguous(party + " submission timed out")
	deltas, reason := s.scorer.Score(outcome, false, false)

	cause, err := s.adjudicator.Adjudicate(ctx, t.Hypothesis, "ambiguous critique")
	if err != nil {
		return nil, err
	}
	decision := resolveEscalation(cause, t.Hypothesis.Stage)

	round := tournament.Round{
		Number:   t.RoundCount() + 1,
		Critique: crit,
		Defense:  def,
		Outcome:  outcome,
		Decision: decision,
		Events:   scoring.Events(deltas, reason, t.RoundCount()+1),
		PlayedAt: core.Now(),
	}
	if err := t.Record(round); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return &RoundResult{Tournament: t, Round: round, Escalated: true, Termination: t.Termination()}, nil
}

// Cancel discards a tournament between rounds.
func (s *TournamentService) Cancel(ctx context.Context, id core.TournamentID) (*tournament.Termination, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Cancel(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("tournament %s cancelled", t.ID)
	return t.Termination(), nil
}

// Get returns the current ledger state.
func (s *TournamentService) Get(ctx context.Context, id core.TournamentID) (*tournament.Tournament, error) {
	return s.repo.Get(ctx, id)
}

// escalationReason decides whether global routing takes over this round.
// The checks are ordered: an explicit local escalation wins, then the
// stalemate window, then the safety-critical flag, then the exhausted
// budget.
func (s *TournamentService) escalationReason(t *tournament.Tournament, decision routing.Decision, outcome exchange.Outcome, budgetExhausted bool) string {
	if decision.Kind == routing.Escalate {
		return decision.Reason
	}
	if decision.Kind == routing.Reject &&
		t.RejectStreak(outcome.Category()) >= stalemateWindow-1 {
		return "stalemate"
	}
	if t.Hypothesis.SafetyCritical && decision.Kind != routing.Pass {
		return "safety-critical hypothesis"
	}
	if budgetExhausted {
		return "budget exhausted"
	}
	return ""
}

// resolveEscalation converts the adjudicated root cause into a decision the
// ledger will accept. A cause owned by a stage the hypothesis has not
// reached yet has no checkpoint to fall back to, so it retires the
// hypothesis instead of producing a forward reject target.
func resolveEscalation(cause routing.RootCause, stage hypothesis.Stage) routing.Decision {
	d := routing.Resolve(cause)
	if d.Kind == routing.Reject && d.TargetStage > stage {
		return routing.Decision{Kind: routing.Discard, Reason: string(cause)}
	}
	return d
}

// passedEquations collects every equation that previously checked out
// dimensionally in this tournament: cited equations of false-alarm rounds
// and re-derived defense calculations. These are the checks a repair must
// not invalidate.
func passedEquations(t *tournament.Tournament) []string {
	var eqs []string
	for _, r := range t.Rounds {
		if r.Outcome.Kind != exchange.OutcomeFalseAlarm {
			continue
		}
		if r.Defense.Calculation != nil {
			eqs = append(eqs, r.Defense.Calculation.Equation)
		}
		for _, eq := range r.Critique.CitedEquations {
			if strings.Contains(eq, "=") {
				eqs = append(eqs, eq)
			}
		}
	}
	return eqs
}

package tournament

import (
	"fmt"

	"gauntlet/domain/core"
	"gauntlet/domain/exchange"
	"gauntlet/domain/hypothesis"
	"gauntlet/domain/routing"
	"gauntlet/domain/scoring"
)

// stalemateWindow is the number of consecutive same-category Reject rounds
// at one stage that constitutes a stalemate.
const stalemateWindow = 3

// convergenceWindow is the number of consecutive FalseAlarm rounds at one
// stage that constitutes convergence.
const convergenceWindow = 2

// Tournament is the per-hypothesis ledger: the ordered round history,
// cumulative scores, and termination state. All mutation goes through
// Record, the single writer; an update either commits a full round or
// nothing.
type Tournament struct {
	ID          core.TournamentID     `json:"id"`
	Hypothesis  hypothesis.Hypothesis `json:"hypothesis"`
	Rounds      []CommittedRound      `json:"rounds"`
	Scores      map[scoring.Role]int  `json:"scores"`
	State       State                 `json:"state"`
	StateReason string                `json:"state_reason,omitempty"`
	CreatedAt   core.Timestamp        `json:"created_at"`
	UpdatedAt   core.Timestamp        `json:"updated_at"`
}

// New opens a tournament for a hypothesis entering adversarial review.
func New(h hypothesis.Hypothesis) (*Tournament, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	now := core.Now()
	return &Tournament{
		ID:         core.TournamentID(core.NewID()),
		Hypothesis: h.Clone(),
		Scores: map[scoring.Role]int{
			scoring.RoleChallenger: 0,
			scoring.RoleDefender:   0,
		},
		State:     StateActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsTerminal reports whether the tournament accepts further rounds.
func (t *Tournament) IsTerminal() bool {
	return t.State != StateActive
}

// RoundCount returns the number of committed rounds.
func (t *Tournament) RoundCount() int {
	return len(t.Rounds)
}

// Record commits one fully evaluated round. It validates sequencing and
// stage invariants before touching any state, then applies the routing
// decision: stage advance on Pass, patch application on PassWithRepair
// (the only path that increments the revision), stage fallback on Reject,
// and termination on Discard or on a Pass out of the oversight stage.
//
// Escalate decisions must be resolved by the caller before they reach the
// ledger; recording one is a programming error.
func (t *Tournament) Record(round Round) error {
	if t.IsTerminal() {
		return core.ErrTournamentTerminal
	}
	if round.Number != len(t.Rounds)+1 {
		return fmt.Errorf("%w: got round %d, want %d", core.ErrRoundOutOfOrder, round.Number, len(t.Rounds)+1)
	}
	if round.Critique.HypothesisID != t.Hypothesis.ID || round.Critique.Revision != t.Hypothesis.Revision {
		return core.ErrUnknownRevision
	}
	if round.Defense.CritiqueID != round.Critique.ID {
		return core.ErrDetachedDefense
	}

	stage := t.Hypothesis.Stage
	switch round.Decision.Kind {
	case routing.Pass, routing.Discard:
		// no preconditions beyond the above
	case routing.PassWithRepair:
		if round.Decision.Patch == nil || round.Decision.Patch.IsEmpty() {
			return core.NewMalformedInputError("pass_with_repair decision carries no patch")
		}
	case routing.Reject:
		// Local routing always targets exactly one stage down; global
		// routing may fall back further, or re-run the current stage when
		// the hypothesis is already at its root-cause stage. Forward
		// targets are never a rejection.
		target := round.Decision.TargetStage
		if !target.Valid() || target > stage {
			return fmt.Errorf("%w: stage %d from stage %d", core.ErrInvalidTargetStage, int(target), int(stage))
		}
	case routing.Escalate:
		return core.NewMalformedInputError("escalate decision reached the ledger unresolved")
	default:
		return core.NewMalformedInputError("unknown decision kind " + string(round.Decision.Kind))
	}

	// All checks passed; mutate.
	t.Rounds = append(t.Rounds, CommittedRound{Round: round, Stage: int(stage)})
	for _, ev := range round.Events {
		t.Scores[ev.Role] += ev.Delta
	}

	switch round.Decision.Kind {
	case routing.Pass:
		if stage == hypothesis.StageOversight {
			// Passing the oversight checkpoint is the final sign-off.
			t.terminate(StatePassed, "passed oversight review")
		} else {
			t.Hypothesis.Stage = stage.Next()
		}
	case routing.PassWithRepair:
		t.Hypothesis = round.Decision.Patch.Apply(t.Hypothesis)
	case routing.Reject:
		t.Hypothesis.Stage = round.Decision.TargetStage
	case routing.Discard:
		t.terminate(StateDiscarded, round.Decision.Reason)
	}

	t.UpdatedAt = core.Now()
	return nil
}

// Cancel discards the tournament between rounds. No partial round state is
// retained; the round in flight, if any, is simply never recorded.
func (t *Tournament) Cancel() error {
	if t.IsTerminal() {
		return core.ErrTournamentTerminal
	}
	t.terminate(StateDiscarded, "cancelled")
	t.UpdatedAt = core.Now()
	return nil
}

func (t *Tournament) terminate(state State, reason string) {
	t.State = state
	t.StateReason = reason
}

// Stalemated reports whether the last stalemateWindow rounds were all
// rejections with the same outcome category - the same defect keeps coming
// back without converging, so escalation is required. RejectStreak exposes
// the prospective form for callers deciding the current round.
func (t *Tournament) Stalemated() bool {
	return t.RejectStreak("") >= stalemateWindow
}

// RejectStreak counts the trailing run of Reject rounds sharing one outcome
// category. With a non-empty category it counts only a streak of that
// category, which lets the caller ask "would one more such rejection
// complete a stalemate window?".
func (t *Tournament) RejectStreak(category string) int {
	streak := 0
	for i := len(t.Rounds) - 1; i >= 0; i-- {
		r := t.Rounds[i]
		if r.Decision.Kind != routing.Reject {
			break
		}
		if category == "" {
			category = r.Outcome.Category()
		}
		if r.Outcome.Category() != category {
			break
		}
		streak++
	}
	return streak
}

// Converged reports whether the last convergenceWindow rounds all
// classified as false alarms - challengers have stopped finding anything,
// which is a stable pass.
func (t *Tournament) Converged() bool {
	if len(t.Rounds) < convergenceWindow {
		return false
	}
	for _, r := range t.Rounds[len(t.Rounds)-convergenceWindow:] {
		if r.Outcome.Kind != exchange.OutcomeFalseAlarm {
			return false
		}
	}
	return true
}

// Termination builds the notice for collaborators. Returns nil while the
// tournament is still active.
func (t *Tournament) Termination() *Termination {
	if !t.IsTerminal() {
		return nil
	}
	scores := make(map[scoring.Role]int, len(t.Scores))
	for role, total := range t.Scores {
		scores[role] = total
	}
	return &Termination{
		HypothesisID: t.Hypothesis.ID,
		Outcome:      t.State,
		Reason:       t.StateReason,
		FinalScores:  scores,
		RoundCount:   len(t.Rounds),
	}
}

// EventStream returns the flattened append-only score event history.
func (t *Tournament) EventStream() []scoring.ScoreEvent {
	var events []scoring.ScoreEvent
	for _, r := range t.Rounds {
		events = append(events, r.Events...)
	}
	return events
}

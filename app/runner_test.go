package app

import (
	"context"
	"testing"

	"gauntlet/domain/core"
	"gauntlet/domain/exchange"
	"gauntlet/domain/hypothesis"
	"gauntlet/domain/routing"
	"gauntlet/domain/scoring"
	"gauntlet/domain/tournament"
	"gauntlet/internal"
	"gauntlet/internal/testkit"
	"gauntlet/ports"
)

func newTestRunner(cause routing.RootCause, challenger ports.ChallengerPort, defender ports.DefenderPort) (*Runner, *testkit.InMemoryTournamentRepository) {
	repo := testkit.NewInMemoryTournamentRepository()
	service := NewTournamentService(
		repo,
		testkit.FixedAdjudicator{Cause: cause},
		scoring.NewEngine(scoring.DefaultTable()),
		NewBudget(0),
		1,
		internal.NewLogger(internal.LogLevelError),
	)
	return NewRunner(service, challenger, defender, 2, internal.NewLogger(internal.LogLevelError)), repo
}

// TestRunSoundHypothesisPasses drives the sound fixture all the way to the
// oversight sign-off: three false-alarm rounds, then Passed.
func TestRunSoundHypothesisPasses(t *testing.T) {
	h := testkit.HeatTransferHypothesis()
	challenger := testkit.EquationChallenger{
		Equations: map[core.HypothesisID]string{h.ID: "Q = h * A * dT"},
	}
	runner, _ := newTestRunner(routing.CauseFlawedGeneration, challenger, testkit.RederivingDefender{})

	term, err := runner.Run(context.Background(), h)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if term.Outcome != tournament.StatePassed {
		t.Errorf("outcome = %s, want passed", term.Outcome)
	}
	// Analytical, simulation, oversight: three checkpoints from the fixture's
	// starting stage.
	if term.RoundCount != 3 {
		t.Errorf("rounds = %d, want 3", term.RoundCount)
	}
}

// TestRunFlawedHypothesisDiscarded drives the flawed fixture: rejection to
// generation, then an unrepaired defect at generation discards it.
func TestRunFlawedHypothesisDiscarded(t *testing.T) {
	h := testkit.DragForceHypothesis()
	challenger := testkit.EquationChallenger{
		Equations: map[core.HypothesisID]string{h.ID: "F = Cd * rho * v^2 * A"},
	}
	runner, _ := newTestRunner(routing.CauseFlawedGeneration, challenger, testkit.RederivingDefender{})

	term, err := runner.Run(context.Background(), h)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if term.Outcome != tournament.StateDiscarded {
		t.Errorf("outcome = %s, want discarded", term.Outcome)
	}
	if term.RoundCount != 2 {
		t.Errorf("rounds = %d, want 2", term.RoundCount)
	}
}

// TestRunAllOrdersResults runs both fixtures in parallel and checks results
// come back in input order.
func TestRunAllOrdersResults(t *testing.T) {
	heat := testkit.HeatTransferHypothesis()
	drag := testkit.DragForceHypothesis()
	challenger := testkit.EquationChallenger{
		Equations: map[core.HypothesisID]string{
			heat.ID: "Q = h * A * dT",
			drag.ID: "F = Cd * rho * v^2 * A",
		},
	}
	runner, repo := newTestRunner(routing.CauseFlawedGeneration, challenger, testkit.RederivingDefender{})

	terms, err := runner.RunAll(context.Background(), []hypothesis.Hypothesis{heat, drag})
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("got %d results, want 2", len(terms))
	}
	if terms[0].HypothesisID != heat.ID || terms[0].Outcome != tournament.StatePassed {
		t.Errorf("first result = %+v, want heat passed", terms[0])
	}
	if terms[1].HypothesisID != drag.ID || terms[1].Outcome != tournament.StateDiscarded {
		t.Errorf("second result = %+v, want drag discarded", terms[1])
	}

	ts, err := repo.List(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ts) != 2 {
		t.Errorf("repository holds %d tournaments, want 2", len(ts))
	}
}

// timeoutChallenger simulates a party that never submits.
type timeoutChallenger struct{}

func (timeoutChallenger) Critique(ctx context.Context, h hypothesis.Hypothesis) (exchange.Critique, error) {
	return exchange.Critique{}, context.DeadlineExceeded
}

// TestRunTimeoutEscalates: a party that never submits produces ambiguous
// forfeit rounds; with a discarding adjudicator the tournament terminates.
func TestRunTimeoutEscalates(t *testing.T) {
	h := testkit.HeatTransferHypothesis()
	runner, _ := newTestRunner(routing.CauseOutOfScope, timeoutChallenger{}, testkit.RederivingDefender{})

	term, err := runner.Run(context.Background(), h)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if term.Outcome != tournament.StateDiscarded {
		t.Errorf("outcome = %s, want discarded", term.Outcome)
	}
	if term.RoundCount != 1 {
		t.Errorf("rounds = %d, want 1 forfeit round", term.RoundCount)
	}
}

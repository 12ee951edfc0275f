package routing

import (
	"testing"

	"gauntlet/domain/exchange"
	"gauntlet/domain/hypothesis"
)

// TestRouteTotality checks that every (stage, outcome kind) pair routes
// without error.
func TestRouteTotality(t *testing.T) {
	stages := []hypothesis.Stage{
		hypothesis.StageGeneration,
		hypothesis.StageAnalytical,
		hypothesis.StageSimulation,
		hypothesis.StageOversight,
	}
	outcomes := []exchange.Outcome{
		exchange.Valid(exchange.SeverityMajor, false, ""),
		exchange.Valid(exchange.SeverityModerate, true, ""),
		exchange.Valid(exchange.SeverityMinor, false, ""),
		exchange.FalseAlarm(""),
		exchange.Fabrication(true, ""),
		exchange.Ambiguous(""),
	}

	for _, stage := range stages {
		for _, outcome := range outcomes {
			for _, proposed := range []bool{false, true} {
				for _, consistent := range []bool{false, true} {
					d, err := Route(stage, outcome, proposed, consistent)
					if err != nil {
						t.Fatalf("Route(%s, %s, %v, %v) failed: %v",
							stage, outcome.Kind, proposed, consistent, err)
					}
					if d.Kind == "" {
						t.Errorf("Route(%s, %s) returned empty decision", stage, outcome.Kind)
					}
				}
			}
		}
	}
}

func TestRouteDecisions(t *testing.T) {
	tests := []struct {
		name             string
		stage            hypothesis.Stage
		outcome          exchange.Outcome
		repairProposed   bool
		repairConsistent bool
		wantKind         DecisionKind
		wantTarget       hypothesis.Stage
	}{
		{
			name:     "false alarm passes",
			stage:    hypothesis.StageSimulation,
			outcome:  exchange.FalseAlarm(""),
			wantKind: Pass,
		},
		{
			name:     "fabrication passes despite the misconduct",
			stage:    hypothesis.StageAnalytical,
			outcome:  exchange.Fabrication(true, ""),
			wantKind: Pass,
		},
		{
			name:       "valid defect falls back one stage",
			stage:      hypothesis.StageSimulation,
			outcome:    exchange.Valid(exchange.SeverityMajor, false, ""),
			wantKind:   Reject,
			wantTarget: hypothesis.StageAnalytical,
		},
		{
			name:     "valid defect at generation discards",
			stage:    hypothesis.StageGeneration,
			outcome:  exchange.Valid(exchange.SeverityModerate, false, ""),
			wantKind: Discard,
		},
		{
			name:             "coherent repair passes with repair",
			stage:            hypothesis.StageAnalytical,
			outcome:          exchange.Valid(exchange.SeverityModerate, false, ""),
			repairProposed:   true,
			repairConsistent: true,
			wantKind:         PassWithRepair,
		},
		{
			name:           "incoherent repair still rejects",
			stage:          hypothesis.StageAnalytical,
			outcome:        exchange.Valid(exchange.SeverityModerate, false, ""),
			repairProposed: true,
			wantKind:       Reject,
			wantTarget:     hypothesis.StageGeneration,
		},
		{
			name:     "ambiguous escalates",
			stage:    hypothesis.StageOversight,
			outcome:  exchange.Ambiguous("no checkable content"),
			wantKind: Escalate,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, err := Route(test.stage, test.outcome, test.repairProposed, test.repairConsistent)
			if err != nil {
				t.Fatalf("Route failed: %v", err)
			}
			if d.Kind != test.wantKind {
				t.Errorf("kind = %s, want %s", d.Kind, test.wantKind)
			}
			if test.wantKind == Reject && d.TargetStage != test.wantTarget {
				t.Errorf("target stage = %d, want %d", d.TargetStage, test.wantTarget)
			}
		})
	}
}

func TestRouteRejectsInvalidStage(t *testing.T) {
	if _, err := Route(hypothesis.Stage(0), exchange.FalseAlarm(""), false, false); err == nil {
		t.Error("expected error for stage 0")
	}
	if _, err := Route(hypothesis.Stage(5), exchange.FalseAlarm(""), false, false); err == nil {
		t.Error("expected error for stage 5")
	}
}

func TestResolveRootCauses(t *testing.T) {
	tests := []struct {
		cause      RootCause
		wantKind   DecisionKind
		wantTarget hypothesis.Stage
	}{
		{CauseFlawedGeneration, Reject, hypothesis.StageGeneration},
		{CauseMissedConstraint, Reject, hypothesis.StageAnalytical},
		{CauseSimulationSetup, Reject, hypothesis.StageSimulation},
		{CauseUnsound, Discard, 0},
		{CauseUnsafe, Discard, 0},
		{CauseOutOfScope, Discard, 0},
		{RootCause("something else"), Reject, hypothesis.StageGeneration},
	}

	for _, test := range tests {
		d := Resolve(test.cause)
		if d.Kind != test.wantKind {
			t.Errorf("Resolve(%s) kind = %s, want %s", test.cause, d.Kind, test.wantKind)
		}
		if test.wantKind == Reject && d.TargetStage != test.wantTarget {
			t.Errorf("Resolve(%s) target = %d, want %d", test.cause, d.TargetStage, test.wantTarget)
		}
		if d.Kind == Discard && !d.Terminal() {
			t.Errorf("Resolve(%s) discard should be terminal", test.cause)
		}
	}
}

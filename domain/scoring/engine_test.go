package scoring

import (
	"testing"

	"gauntlet/domain/exchange"
)

// TestScoreOutcomes walks the full point matrix.
func TestScoreOutcomes(t *testing.T) {
	engine := NewEngine(DefaultTable())

	tests := []struct {
		name             string
		outcome          exchange.Outcome
		hasRepair        bool
		repairConsistent bool
		wantChallenger   int
		wantDefender     int
		wantReason       Reason
	}{
		{
			name:           "valid major credits the challenger",
			outcome:        exchange.Valid(exchange.SeverityMajor, false, ""),
			wantChallenger: 10,
			wantReason:     ReasonValidMajor,
		},
		{
			name:           "valid moderate without acknowledgment",
			outcome:        exchange.Valid(exchange.SeverityModerate, false, ""),
			wantChallenger: 4,
			wantReason:     ReasonValidModerate,
		},
		{
			name:           "valid moderate acknowledged credits both",
			outcome:        exchange.Valid(exchange.SeverityModerate, true, ""),
			wantChallenger: 4,
			wantDefender:   4,
			wantReason:     ReasonValidModerate,
		},
		{
			name:           "valid minor",
			outcome:        exchange.Valid(exchange.SeverityMinor, false, ""),
			wantChallenger: 2,
			wantReason:     ReasonValidMinor,
		},
		{
			name:             "accepted repair replaces the base credit",
			outcome:          exchange.Valid(exchange.SeverityMajor, false, ""),
			hasRepair:        true,
			repairConsistent: true,
			wantChallenger:   4,
			wantDefender:     4,
			wantReason:       ReasonRepairAccepted,
		},
		{
			name:           "inconsistent repair degrades to rejection",
			outcome:        exchange.Valid(exchange.SeverityMajor, false, ""),
			hasRepair:      true,
			wantChallenger: 10,
			wantDefender:   0,
			wantReason:     ReasonRepairRejected,
		},
		{
			name:           "false alarm penalizes challenger and credits defender",
			outcome:        exchange.FalseAlarm(""),
			wantChallenger: -4,
			wantDefender:   6,
			wantReason:     ReasonFalseAlarmCaught,
		},
		{
			name:           "fabrication caught by defender",
			outcome:        exchange.Fabrication(true, ""),
			wantChallenger: -8,
			wantDefender:   10,
			wantReason:     ReasonFabricationCaught,
		},
		{
			name:           "fabrication caught by classifier alone",
			outcome:        exchange.Fabrication(false, ""),
			wantChallenger: -8,
			wantDefender:   0,
			wantReason:     ReasonFabrication,
		},
		{
			name:       "ambiguous rewards nobody",
			outcome:    exchange.Ambiguous("cannot decide"),
			wantReason: ReasonAmbiguous,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, reason := engine.Score(test.outcome, test.hasRepair, test.repairConsistent)
			if d.Challenger != test.wantChallenger {
				t.Errorf("challenger delta = %d, want %d", d.Challenger, test.wantChallenger)
			}
			if d.Defender != test.wantDefender {
				t.Errorf("defender delta = %d, want %d", d.Defender, test.wantDefender)
			}
			if reason != test.wantReason {
				t.Errorf("reason = %s, want %s", reason, test.wantReason)
			}
		})
	}
}

// TestEventsConservation checks that summing the emitted events reproduces
// the deltas exactly, including zero entries.
func TestEventsConservation(t *testing.T) {
	engine := NewEngine(DefaultTable())

	outcomes := []exchange.Outcome{
		exchange.Valid(exchange.SeverityMajor, false, ""),
		exchange.Valid(exchange.SeverityModerate, true, ""),
		exchange.FalseAlarm(""),
		exchange.Fabrication(true, ""),
		exchange.Fabrication(false, ""),
		exchange.Ambiguous(""),
	}

	for _, outcome := range outcomes {
		d, reason := engine.Score(outcome, false, false)
		events := Events(d, reason, 1)
		if len(events) != 2 {
			t.Fatalf("expected one event per role, got %d", len(events))
		}
		sums := map[Role]int{}
		for _, ev := range events {
			sums[ev.Role] += ev.Delta
		}
		if sums[RoleChallenger] != d.Challenger || sums[RoleDefender] != d.Defender {
			t.Errorf("event sums %v do not match deltas %+v for %s", sums, d, outcome.Kind)
		}
	}
}

// TestFabricationBeatsFalseAlarm confirms that inventing material is always
// worse for the challenger than an honest miss.
func TestFabricationBeatsFalseAlarm(t *testing.T) {
	engine := NewEngine(DefaultTable())

	falseAlarm, _ := engine.Score(exchange.FalseAlarm(""), false, false)
	fabrication, _ := engine.Score(exchange.Fabrication(true, ""), false, false)

	if fabrication.Challenger >= falseAlarm.Challenger {
		t.Errorf("fabrication penalty %d should exceed false alarm penalty %d",
			fabrication.Challenger, falseAlarm.Challenger)
	}
}

package scoring

import (
	"gauntlet/domain/exchange"
)

// ScoreEvent is one signed point change for one role in one round.
// Append-only; past events are never altered.
type ScoreEvent struct {
	Role   Role   `json:"role"`
	Delta  int    `json:"delta"`
	Reason Reason `json:"reason"`
	Round  int    `json:"round"`
}

// Engine applies an immutable Table to classified outcomes.
type Engine struct {
	table Table
}

// NewEngine creates a scoring engine bound to the given table.
func NewEngine(table Table) *Engine {
	return &Engine{table: table}
}

// Score converts a classified outcome into per-role deltas.
//
// hasRepair reports whether the defense proposed a repair patch;
// repairConsistent whether that patch preserves every previously passed
// dimensional/conservation check. A repair is accepted only when both hold:
// acceptance replaces the base validity credit rather than adding to it. An
// inconsistent repair degrades to a rejection and the challenger retains the
// full validity delta.
func (e *Engine) Score(outcome exchange.Outcome, hasRepair, repairConsistent bool) (Deltas, Reason) {
	t := e.table

	switch outcome.Kind {
	case exchange.OutcomeValid:
		if hasRepair && repairConsistent {
			return Deltas{Challenger: t.RepairChallenger, Defender: t.RepairDefender}, ReasonRepairAccepted
		}
		delta, reason := t.validDelta(outcome.Severity)
		if hasRepair {
			// Repair proposed but breaks consistency: reject instead of
			// repair; challenger keeps the validity credit, defender gets
			// nothing.
			return Deltas{Challenger: delta}, ReasonRepairRejected
		}
		d := Deltas{Challenger: delta}
		if outcome.Severity == exchange.SeverityModerate && outcome.Acknowledged {
			d.Defender = t.ModerateAckDefender
		}
		return d, reason

	case exchange.OutcomeFalseAlarm:
		return Deltas{
			Challenger: t.FalseAlarmChallenger,
			Defender:   t.FalseAlarmDefender,
		}, ReasonFalseAlarmCaught

	case exchange.OutcomeFabrication:
		d := Deltas{Challenger: t.FabricationChallenger}
		if outcome.CaughtByDefender {
			d.Defender = t.FabricationDefender
			return d, ReasonFabricationCaught
		}
		return d, ReasonFabrication

	default:
		// Ambiguous: vagueness rewards nobody.
		return Deltas{}, ReasonAmbiguous
	}
}

// Events expands deltas into one append-only event per role for the round.
// Zero deltas still produce events so that cumulative scores are always the
// exact sum of the event stream.
func Events(d Deltas, reason Reason, round int) []ScoreEvent {
	return []ScoreEvent{
		{Role: RoleChallenger, Delta: d.Challenger, Reason: reason, Round: round},
		{Role: RoleDefender, Delta: d.Defender, Reason: reason, Round: round},
	}
}

package scoring

import (
	"gauntlet/domain/exchange"
)

// Role identifies one of the two adversarial parties.
type Role string

const (
	RoleChallenger Role = "challenger"
	RoleDefender   Role = "defender"
)

// Reason codes attached to score events. Content for the reporting layer;
// the engine never formats them.
type Reason string

const (
	ReasonValidMajor        Reason = "valid_major"
	ReasonValidModerate     Reason = "valid_moderate"
	ReasonValidMinor        Reason = "valid_minor"
	ReasonFalseAlarm        Reason = "false_alarm"
	ReasonFalseAlarmCaught  Reason = "false_alarm_caught"
	ReasonFabrication       Reason = "fabrication"
	ReasonFabricationCaught Reason = "fabrication_caught"
	ReasonRepairAccepted    Reason = "repair_accepted"
	ReasonRepairRejected    Reason = "repair_rejected"
	ReasonAmbiguous         Reason = "ambiguous"
	ReasonNone              Reason = "none"
)

// Deltas are the per-round point changes for each role.
type Deltas struct {
	Challenger int `json:"challenger"`
	Defender   int `json:"defender"`
}

// Table is the immutable point configuration for the scoring engine. It is
// passed in at construction so tests can run against alternate tables; there
// is no package-level mutable instance.
type Table struct {
	ValidMajor    int // challenger credit for a confirmed major defect
	ValidModerate int // challenger credit for a confirmed moderate defect
	ValidMinor    int // challenger credit for a confirmed minor defect

	ModerateAckDefender int // defender credit for acknowledging a moderate defect

	FalseAlarmChallenger int // challenger penalty for a refuted critique
	FalseAlarmDefender   int // defender credit for refuting it

	FabricationChallenger int // challenger penalty for citing invented material
	FabricationDefender   int // defender credit when the defense exposed it

	RepairChallenger int // challenger credit when a coherent repair is accepted
	RepairDefender   int // defender credit for the accepted repair
}

// DefaultTable returns the standard tournament point matrix. Fabricating a
// critique has strictly lower expected value than finding a genuine flaw,
// and refuting a false alarm is the only way a defender scores from a
// challenger error.
func DefaultTable() Table {
	return Table{
		ValidMajor:    10,
		ValidModerate: 4,
		ValidMinor:    2,

		ModerateAckDefender: 4,

		FalseAlarmChallenger: -4,
		FalseAlarmDefender:   6,

		FabricationChallenger: -8,
		FabricationDefender:   10,

		RepairChallenger: 4,
		RepairDefender:   4,
	}
}

// validDelta returns the base challenger credit for a confirmed defect of
// the given severity.
func (t Table) validDelta(severity exchange.Severity) (int, Reason) {
	switch severity {
	case exchange.SeverityMajor:
		return t.ValidMajor, ReasonValidMajor
	case exchange.SeverityMinor:
		return t.ValidMinor, ReasonValidMinor
	default:
		return t.ValidModerate, ReasonValidModerate
	}
}

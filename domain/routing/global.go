package routing

import (
	"gauntlet/domain/hypothesis"
)

// RootCause categorizes what the adjudicator traced a failure back to.
// Each category maps to the stage that owns the fix; terminal judgments
// discard outright.
type RootCause string

const (
	CauseFlawedGeneration RootCause = "flawed_hypothesis_generation"
	CauseMissedConstraint RootCause = "missed_analytical_constraint"
	CauseSimulationSetup  RootCause = "simulation_setup_error"
	CauseUnsound          RootCause = "fundamentally_unsound"
	CauseUnsafe           RootCause = "unsafe"
	CauseOutOfScope       RootCause = "out_of_scope"
)

// Resolve is the global escalation function: it converts an adjudicated
// root cause into a routing decision. Unlike local routing it may move a
// hypothesis backward across several stages at once, and it is the only
// mechanism permitted to discard on human judgment rather than an automatic
// rule. Unrecognized causes default to regeneration.
func Resolve(cause RootCause) Decision {
	switch cause {
	case CauseFlawedGeneration:
		return Decision{Kind: Reject, TargetStage: hypothesis.StageGeneration, Reason: string(cause)}
	case CauseMissedConstraint:
		return Decision{Kind: Reject, TargetStage: hypothesis.StageAnalytical, Reason: string(cause)}
	case CauseSimulationSetup:
		return Decision{Kind: Reject, TargetStage: hypothesis.StageSimulation, Reason: string(cause)}
	case CauseUnsound, CauseUnsafe, CauseOutOfScope:
		return Decision{Kind: Discard, Reason: string(cause)}
	default:
		return Decision{Kind: Reject, TargetStage: hypothesis.StageGeneration, Reason: string(cause)}
	}
}

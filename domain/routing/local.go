package routing

import (
	"gauntlet/domain/core"
	"gauntlet/domain/exchange"
	"gauntlet/domain/hypothesis"
)

// Route is the local feedback function: it maps the current stage, the
// classified outcome, and repair availability/consistency to a routing
// decision. It is total over valid stages and every outcome kind, and it is
// pure; stage and revision mutation happen later at the ledger.
//
// A fabricated critique passes the hypothesis: fabrication is the
// challenger's misconduct, not a defect, and scoring already penalizes it.
// A genuine defect with no acceptable repair falls back one stage, except at
// the generation stage, which has nothing earlier to return to - the
// hypothesis is discarded.
func Route(stage hypothesis.Stage, outcome exchange.Outcome, repairProposed, repairConsistent bool) (Decision, error) {
	if !stage.Valid() {
		return Decision{}, core.NewInvalidStageError(int(stage))
	}

	switch outcome.Kind {
	case exchange.OutcomeAmbiguous:
		return Decision{Kind: Escalate, Reason: "ambiguous critique"}, nil

	case exchange.OutcomeFalseAlarm:
		return Decision{Kind: Pass}, nil

	case exchange.OutcomeFabrication:
		return Decision{Kind: Pass}, nil

	case exchange.OutcomeValid:
		if repairProposed && repairConsistent {
			return Decision{Kind: PassWithRepair}, nil
		}
		if stage == hypothesis.StageGeneration {
			return Decision{Kind: Discard, Reason: "unrepaired defect at generation stage"}, nil
		}
		return Decision{Kind: Reject, TargetStage: stage - 1}, nil

	default:
		return Decision{}, core.NewMalformedInputError("unknown outcome kind " + string(outcome.Kind))
	}
}

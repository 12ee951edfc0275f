package routing

import (
	"fmt"

	"gauntlet/domain/hypothesis"
)

// DecisionKind enumerates the routing verdicts a round can end with.
type DecisionKind string

const (
	Pass           DecisionKind = "pass"
	PassWithRepair DecisionKind = "pass_with_repair"
	Reject         DecisionKind = "reject"
	Escalate       DecisionKind = "escalate"
	Discard        DecisionKind = "discard_permanently"
)

// Decision is the tagged routing verdict for one round. Produced once,
// never mutated. TargetStage is set only for Reject; Patch only for
// PassWithRepair; Reason only for Escalate and Discard.
type Decision struct {
	Kind        DecisionKind      `json:"kind"`
	TargetStage hypothesis.Stage  `json:"target_stage,omitempty"`
	Patch       *hypothesis.Patch `json:"patch,omitempty"`
	Reason      string            `json:"reason,omitempty"`
}

// Terminal reports whether the decision ends the tournament outright.
func (d Decision) Terminal() bool {
	return d.Kind == Discard
}

func (d Decision) String() string {
	switch d.Kind {
	case Reject:
		return fmt.Sprintf("%s(stage=%d)", d.Kind, int(d.TargetStage))
	case Escalate, Discard:
		if d.Reason != "" {
			return fmt.Sprintf("%s(%s)", d.Kind, d.Reason)
		}
	}
	return string(d.Kind)
}

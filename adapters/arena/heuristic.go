// Package arena provides default implementations of the arena ports for
// deployments without a live review panel.
package arena

import (
	"context"
	"strings"

	"gauntlet/domain/hypothesis"
	"gauntlet/domain/routing"
)

// HeuristicAdjudicator maps escalation reasons to root causes with fixed
// rules. It stands in for a human oversight panel: conservative, and it
// never blocks.
type HeuristicAdjudicator struct{}

func NewHeuristicAdjudicator() *HeuristicAdjudicator {
	return &HeuristicAdjudicator{}
}

func (a *HeuristicAdjudicator) Adjudicate(ctx context.Context, h hypothesis.Hypothesis, reason string) (routing.RootCause, error) {
	r := strings.ToLower(reason)
	switch {
	case h.SafetyCritical && strings.Contains(r, "safety"):
		return routing.CauseUnsafe, nil
	case strings.Contains(r, "budget"):
		// Nothing left to spend on rework; retire the hypothesis.
		return routing.CauseOutOfScope, nil
	case strings.Contains(r, "ambiguous"):
		// An undecidable critique usually means the analytical pass left
		// the claim underconstrained.
		return routing.CauseMissedConstraint, nil
	case strings.Contains(r, "stalemate"):
		return routing.CauseFlawedGeneration, nil
	default:
		return routing.CauseFlawedGeneration, nil
	}
}

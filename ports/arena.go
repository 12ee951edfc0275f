package ports

import (
	"context"

	"gauntlet/domain/exchange"
	"gauntlet/domain/hypothesis"
	"gauntlet/domain/routing"
)

// ChallengerPort is anything that can produce a critique for a hypothesis:
// a language model, a human reviewer, or a scripted fixture in tests. The
// engine never knows which.
type ChallengerPort interface {
	Critique(ctx context.Context, h hypothesis.Hypothesis) (exchange.Critique, error)
}

// DefenderPort is anything that can answer a critique with a defense.
type DefenderPort interface {
	Defend(ctx context.Context, h hypothesis.Hypothesis, critique exchange.Critique) (exchange.Defense, error)
}

// AdjudicatorPort is the global authority consulted on escalation. It
// returns the root cause the failure is traced to; the routing layer maps
// that to a stage or a permanent discard.
type AdjudicatorPort interface {
	Adjudicate(ctx context.Context, h hypothesis.Hypothesis, reason string) (routing.RootCause, error)
}

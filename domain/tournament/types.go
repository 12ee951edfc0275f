package tournament

import (
	"gauntlet/domain/core"
	"gauntlet/domain/exchange"
	"gauntlet/domain/routing"
	"gauntlet/domain/scoring"
)

// State is the termination predicate of a tournament.
type State string

const (
	StateActive    State = "active"
	StatePassed    State = "passed"
	StateDiscarded State = "discarded"
)

// Round is one complete (critique, defense, routing decision) triple with
// its classification and score events. A round is assembled in full before
// it reaches the ledger; partially evaluated rounds never exist there.
type Round struct {
	Number   int                  `json:"number"`
	Critique exchange.Critique    `json:"critique"`
	Defense  exchange.Defense     `json:"defense"`
	Outcome  exchange.Outcome     `json:"outcome"`
	Decision routing.Decision     `json:"decision"`
	Events   []scoring.ScoreEvent `json:"events"`
	PlayedAt core.Timestamp       `json:"played_at"`
}

// CommittedRound is a round plus the stage it was evaluated at, captured on
// commit. The stalemate and convergence windows track trailing outcome
// categories across stages (a rejection moves the stage, so a same-stage
// window would never fill); the stage is recorded for reporting and audit.
type CommittedRound struct {
	Round
	Stage int `json:"stage"`
}

// Termination is the notice emitted to collaborators when a tournament
// reaches a terminal state.
type Termination struct {
	HypothesisID core.HypothesisID    `json:"hypothesis_id"`
	Outcome      State                `json:"outcome"`
	Reason       string               `json:"reason,omitempty"`
	FinalScores  map[scoring.Role]int `json:"final_scores"`
	RoundCount   int                  `json:"round_count"`
}

package ports

import (
	"context"

	"gauntlet/domain/core"
	"gauntlet/domain/tournament"
)

// TournamentRepository persists tournament ledgers so routing can resume
// across process restarts. The persisted unit is the whole ledger: ordered
// rounds plus current stage, revision, and scores.
type TournamentRepository interface {
	Save(ctx context.Context, t *tournament.Tournament) error
	Get(ctx context.Context, id core.TournamentID) (*tournament.Tournament, error)
	GetByHypothesis(ctx context.Context, id core.HypothesisID) (*tournament.Tournament, error)
	List(ctx context.Context, state tournament.State, limit int) ([]*tournament.Tournament, error)
}

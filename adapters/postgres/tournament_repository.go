package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gauntlet/domain/core"
	"gauntlet/domain/hypothesis"
	"gauntlet/domain/scoring"
	"gauntlet/domain/tournament"
	"gauntlet/ports"
)

// TournamentRepositoryImpl implements TournamentRepository for PostgreSQL.
// The round history and scores ride as JSONB; stage, revision and state are
// first-class columns so active tournaments can be queried without
// unmarshaling ledgers.
type TournamentRepositoryImpl struct {
	db *sqlx.DB
}

// NewTournamentRepository creates a new PostgreSQL tournament repository
func NewTournamentRepository(db *sqlx.DB) ports.TournamentRepository {
	return &TournamentRepositoryImpl{db: db}
}

// Schema is the bootstrap DDL for the tournament ledger table.
const Schema = `
CREATE TABLE IF NOT EXISTS tournaments (
	id             TEXT PRIMARY KEY,
	hypothesis_id  TEXT NOT NULL,
	hypothesis     JSONB NOT NULL,
	stage          INT NOT NULL,
	revision       INT NOT NULL,
	rounds         JSONB NOT NULL,
	scores         JSONB NOT NULL,
	state          TEXT NOT NULL,
	state_reason   TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS tournaments_hypothesis_idx ON tournaments (hypothesis_id);
CREATE INDEX IF NOT EXISTS tournaments_state_idx ON tournaments (state);
`

// Migrate creates the schema if it does not exist.
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(Schema)
	return err
}

// Save upserts the complete ledger in one statement; the write is atomic at
// the row level, so a ledger is either fully updated or untouched.
func (r *TournamentRepositoryImpl) Save(ctx context.Context, t *tournament.Tournament) error {
	hypothesisJSON, err := json.Marshal(t.Hypothesis)
	if err != nil {
		return fmt.Errorf("failed to marshal hypothesis: %w", err)
	}
	roundsJSON, err := json.Marshal(t.Rounds)
	if err != nil {
		return fmt.Errorf("failed to marshal rounds: %w", err)
	}
	scoresJSON, err := json.Marshal(t.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tournaments (
			id, hypothesis_id, hypothesis, stage, revision,
			rounds, scores, state, state_reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			hypothesis = EXCLUDED.hypothesis,
			stage = EXCLUDED.stage,
			revision = EXCLUDED.revision,
			rounds = EXCLUDED.rounds,
			scores = EXCLUDED.scores,
			state = EXCLUDED.state,
			state_reason = EXCLUDED.state_reason,
			updated_at = EXCLUDED.updated_at`,
		t.ID.String(), t.Hypothesis.ID.String(), hypothesisJSON,
		int(t.Hypothesis.Stage), t.Hypothesis.Revision,
		roundsJSON, scoresJSON, string(t.State), t.StateReason,
		t.CreatedAt.Time(), t.UpdatedAt.Time())

	return err
}

// Get retrieves a tournament by ID.
func (r *TournamentRepositoryImpl) Get(ctx context.Context, id core.TournamentID) (*tournament.Tournament, error) {
	return r.getBy(ctx, "id = $1", id.String())
}

// GetByHypothesis retrieves the tournament owning a hypothesis.
func (r *TournamentRepositoryImpl) GetByHypothesis(ctx context.Context, id core.HypothesisID) (*tournament.Tournament, error) {
	return r.getBy(ctx, "hypothesis_id = $1", id.String())
}

func (r *TournamentRepositoryImpl) getBy(ctx context.Context, where string, arg string) (*tournament.Tournament, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, hypothesis, rounds, scores, state, state_reason, created_at, updated_at
		FROM tournaments
		WHERE `+where, arg)

	t, err := scanTournament(row)
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("tournament", arg)
	}
	return t, err
}

// List returns tournaments in a given state, newest first. An empty state
// lists everything.
func (r *TournamentRepositoryImpl) List(ctx context.Context, state tournament.State, limit int) ([]*tournament.Tournament, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, hypothesis, rounds, scores, state, state_reason, created_at, updated_at
		FROM tournaments`
	args := []interface{}{}
	if state != "" {
		query += ` WHERE state = $1`
		args = append(args, string(state))
	}
	query += fmt.Sprintf(` ORDER BY updated_at DESC LIMIT %d`, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tournaments []*tournament.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTournament(row rowScanner) (*tournament.Tournament, error) {
	var (
		t              tournament.Tournament
		id             string
		hypothesisJSON []byte
		roundsJSON     []byte
		scoresJSON     []byte
		state          string
		createdAt      sql.NullTime
		updatedAt      sql.NullTime
	)
	if err := row.Scan(&id, &hypothesisJSON, &roundsJSON, &scoresJSON, &state, &t.StateReason, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	t.ID = core.TournamentID(id)
	t.State = tournament.State(state)
	if createdAt.Valid {
		t.CreatedAt = core.NewTimestamp(createdAt.Time)
	}
	if updatedAt.Valid {
		t.UpdatedAt = core.NewTimestamp(updatedAt.Time)
	}

	var h hypothesis.Hypothesis
	if err := json.Unmarshal(hypothesisJSON, &h); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hypothesis: %w", err)
	}
	t.Hypothesis = h

	if err := json.Unmarshal(roundsJSON, &t.Rounds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rounds: %w", err)
	}
	scores := make(map[scoring.Role]int)
	if err := json.Unmarshal(scoresJSON, &scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
	}
	t.Scores = scores

	return &t, nil
}

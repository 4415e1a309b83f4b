package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"comment_harvester/internal/domain"
)

type RunStateStore struct {
	db *sqlx.DB
}

func NewRunStateStore(db *sqlx.DB) *RunStateStore {
	return &RunStateStore{db: db}
}

func (s *RunStateStore) Get(ctx context.Context, stage string) (*domain.RunState, error) {
	var state domain.RunState
	query := `
		SELECT id, stage, last_run_at, last_item_id, total_processed
		FROM run_state
		WHERE stage = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &state, query, stage)
	if errors.Is(err, sql.ErrNoRows) {
		// Return empty state for stages that never ran
		return &domain.RunState{
			Stage:     stage,
			LastRunAt: time.Time{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RunStateStore) Update(ctx context.Context, state *domain.RunState) error {
	query := `
		INSERT INTO run_state (stage, last_run_at, last_item_id, total_processed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (stage) DO UPDATE SET
			last_run_at = EXCLUDED.last_run_at,
			last_item_id = EXCLUDED.last_item_id,
			total_processed = EXCLUDED.total_processed`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		state.Stage,
		state.LastRunAt,
		state.LastItemID,
		state.TotalProcessed,
	)
	return err
}

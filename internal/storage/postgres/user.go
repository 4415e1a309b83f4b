package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// GetOrCreate returns the id of the user with exactly this name, creating
// the user first if needed.
func (s *UserStore) GetOrCreate(ctx context.Context, name string) (int64, error) {
	exec := GetExecutor(ctx, s.db)

	var id int64
	err := exec.QueryRowxContext(ctx,
		`INSERT INTO users (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING user_id`,
		name,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		err = exec.QueryRowxContext(ctx,
			"SELECT user_id FROM users WHERE name = $1",
			name,
		).Scan(&id)
	}

	if err != nil {
		return 0, err
	}

	return id, nil
}

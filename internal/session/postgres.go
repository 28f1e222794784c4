package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps sessions in the ui_sessions table created by the
// embedded migrations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context, profile string) ([]byte, error) {
	var payload string
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM ui_sessions WHERE profile_id = $1`, profile,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return []byte(payload), nil
}

func (s *PostgresStore) Save(ctx context.Context, profile string, payload []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ui_sessions (profile_id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (profile_id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`,
		profile, string(payload))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, profile string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM ui_sessions WHERE profile_id = $1`, profile); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

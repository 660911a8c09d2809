package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists session correlations in PostgreSQL so conversation
// threads survive restarts. Only the user-to-conversation mapping is stored,
// not message history.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmt := `CREATE TABLE IF NOT EXISTS chat_sessions (
		user_key TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userKey string) (Session, bool, error) {
	var sess Session
	err := s.pool.QueryRow(ctx,
		`SELECT user_key, conversation_id, created_at, updated_at
		 FROM chat_sessions WHERE user_key=$1`,
		userKey,
	).Scan(&sess.UserKey, &sess.ConversationID, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("query session: %w", err)
	}
	return sess, true, nil
}

func (s *PostgresStore) SetConversationID(ctx context.Context, userKey, conversationID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO chat_sessions (user_key, conversation_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_key) DO UPDATE
		 SET conversation_id = EXCLUDED.conversation_id, updated_at = now()`,
		userKey,
		conversationID,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM chat_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

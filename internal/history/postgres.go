package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS session_history (
	session_id TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS session_messages (
	id         BIGSERIAL PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES session_history(session_id) ON DELETE CASCADE,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_messages_session ON session_messages (session_id, id);
`

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("history schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadOrCreate(ctx context.Context, sessionID string) ([]Message, error) {
	const insertQ = `INSERT INTO session_history (session_id) VALUES ($1) ON CONFLICT (session_id) DO NOTHING`
	if _, err := s.pool.Exec(ctx, insertQ, sessionID); err != nil {
		return nil, fmt.Errorf("create history: %w", err)
	}

	const q = `SELECT role, content, created_at FROM session_messages WHERE session_id=$1 ORDER BY id`
	rows, err := s.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var m Message
		var role string
		if err := rows.Scan(&role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = Role(role)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Append(ctx context.Context, sessionID string, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO session_history (session_id) VALUES ($1) ON CONFLICT (session_id) DO NOTHING`,
			sessionID,
		); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, m := range msgs {
			created := m.CreatedAt
			if created.IsZero() {
				created = time.Now().UTC()
			}
			batch.Queue(
				`INSERT INTO session_messages (session_id, role, content, created_at) VALUES ($1,$2,$3,$4)`,
				sessionID, string(m.Role), m.Content, created,
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

var _ Store = (*PostgresStore)(nil)

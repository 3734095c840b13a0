package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultPruneInterval = 15 * time.Minute
	storageOpTimeout     = 3 * time.Second
)

// PostgresStorage implements fiber.Storage on a sessions table so any backend
// instance can serve any session. The table is created when missing and
// expired rows are pruned in the background until Close.
type PostgresStorage struct {
	db     *pgxpool.Pool
	logger *slog.Logger
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewPostgresStorage ensures the sessions table exists and starts pruning
// expired rows every pruneInterval (15 minutes when zero).
func NewPostgresStorage(ctx context.Context, db *pgxpool.Pool, logger *slog.Logger, pruneInterval time.Duration) (*PostgresStorage, error) {
	if db == nil {
		return nil, fmt.Errorf("database pool is required")
	}
	if pruneInterval <= 0 {
		pruneInterval = defaultPruneInterval
	}

	if _, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS sessions (
		sid        TEXT PRIMARY KEY,
		data       BYTEA NOT NULL,
		expires_at TIMESTAMPTZ
	)`); err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	if _, err := db.Exec(ctx, `CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at)`); err != nil {
		return nil, fmt.Errorf("create sessions index: %w", err)
	}

	s := &PostgresStorage{db: db, logger: logger, done: make(chan struct{})}
	s.wg.Add(1)
	go s.prune(pruneInterval)
	return s, nil
}

// Get returns nil without error for unknown or expired ids.
func (s *PostgresStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageOpTimeout)
	defer cancel()

	var (
		data      []byte
		expiresAt *time.Time
	)
	err := s.db.QueryRow(ctx, `SELECT data, expires_at FROM sessions WHERE sid = $1`, key).Scan(&data, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if expiresAt != nil && !expiresAt.After(time.Now()) {
		return nil, nil
	}
	return data, nil
}

// Set upserts the record. A zero exp stores a record without expiry.
func (s *PostgresStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageOpTimeout)
	defer cancel()

	var expiresAt *time.Time
	if exp > 0 {
		t := time.Now().Add(exp).UTC()
		expiresAt = &t
	}
	_, err := s.db.Exec(ctx, `INSERT INTO sessions (sid, data, expires_at) VALUES ($1, $2, $3)
        ON CONFLICT (sid) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`,
		key, val, expiresAt)
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Delete removes the record for key.
func (s *PostgresStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageOpTimeout)
	defer cancel()
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE sid = $1`, key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Reset removes every session.
func (s *PostgresStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), storageOpTimeout)
	defer cancel()
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

// Close stops the pruning goroutine. The pool is owned by the caller.
func (s *PostgresStorage) Close() error {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
	return nil
}

func (s *PostgresStorage) prune(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), storageOpTimeout)
			tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= now()`)
			cancel()
			if s.logger == nil {
				continue
			}
			if err != nil {
				s.logger.Warn("session prune failed", slog.Any("error", err))
				continue
			}
			if n := tag.RowsAffected(); n > 0 {
				s.logger.Debug("expired sessions pruned", slog.Int64("count", n))
			}
		}
	}
}

package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const createWindowsTable = `
CREATE TABLE IF NOT EXISTS admission_windows (
	client_key   TEXT PRIMARY KEY,
	count        INTEGER NOT NULL,
	window_start BIGINT NOT NULL
)`

// hitQuery applies the window rule in a single statement; the row lock taken
// by ON CONFLICT serializes concurrent hits on one key.
const hitQuery = `
INSERT INTO admission_windows (client_key, count, window_start)
VALUES ($1, 1, $2)
ON CONFLICT (client_key) DO UPDATE SET
	count = CASE WHEN $2 - admission_windows.window_start > $3
		THEN 1 ELSE admission_windows.count + 1 END,
	window_start = CASE WHEN $2 - admission_windows.window_start > $3
		THEN $2 ELSE admission_windows.window_start END
RETURNING count, window_start`

// PostgresStore keeps windows in PostgreSQL so every instance shares the same counts.
type PostgresStore struct {
	pool  *pgxpool.Pool
	owned bool

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// NewPostgresStore connects to databaseURL and creates the windows table if needed.
// A positive cleanupInterval periodically deletes windows older than retention.
func NewPostgresStore(ctx context.Context, databaseURL string, cleanupInterval, retention time.Duration) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewPostgresStoreWithPool(pool)
	store.owned = true
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if cleanupInterval > 0 && retention > 0 {
		store.cleanupTicker = time.NewTicker(cleanupInterval)
		store.cleanupStop = make(chan struct{})
		go store.cleanup(retention)
	}
	return store, nil
}

// NewPostgresStoreWithPool wraps an existing pool. The caller keeps ownership of the pool.
func NewPostgresStoreWithPool(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the admission_windows table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createWindowsTable); err != nil {
		return fmt.Errorf("failed to create admission_windows table: %w", err)
	}
	return nil
}

// Hit implements Store.
func (s *PostgresStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration) (Window, error) {
	var count int
	var start int64
	err := s.pool.QueryRow(ctx, hitQuery, key, now.UnixMilli(), window.Milliseconds()).Scan(&count, &start)
	if err != nil {
		return Window{}, fmt.Errorf("postgres rate limit hit: %w", err)
	}

	return Window{
		Count: count,
		Start: time.UnixMilli(start),
	}, nil
}

// DeleteExpired removes windows that started more than window before now.
func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time, window time.Duration) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM admission_windows WHERE $1 - window_start > $2`,
		now.UnixMilli(), window.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired windows: %w", err)
	}
	return tag.RowsAffected(), nil
}

// cleanup deletes expired windows on every tick.
func (s *PostgresStore) cleanup(retention time.Duration) {
	for {
		select {
		case <-s.cleanupTicker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			deleted, err := s.DeleteExpired(ctx, time.Now(), retention)
			cancel()
			if err != nil {
				log.Warn().Err(err).Msg("rate limit window cleanup failed")
			} else if deleted > 0 {
				log.Debug().Int64("deleted", deleted).Msg("rate limit windows evicted")
			}
		case <-s.cleanupStop:
			return
		}
	}
}

// Close stops the cleanup goroutine and closes the pool when the store created it.
func (s *PostgresStore) Close() error {
	s.stopOnce.Do(func() {
		if s.cleanupTicker != nil {
			s.cleanupTicker.Stop()
			close(s.cleanupStop)
		}
		if s.owned {
			s.pool.Close()
		}
	})
	return nil
}

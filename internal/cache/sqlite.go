package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-dog-catalog/internal/repo"
)

// SQLiteBackend stores entries in the cache_entries table through GORM.
// Expiration is enforced in the lookup query; stale rows are removed by Prune.
type SQLiteBackend struct {
	DB *gorm.DB
}

// NewSQLiteBackend returns a backend over db. The schema must already be
// migrated (see repo.AutoMigrate).
func NewSQLiteBackend(db *gorm.DB) *SQLiteBackend {
	return &SQLiteBackend{DB: db}
}

// Get implements Backend.
func (s *SQLiteBackend) Get(ctx context.Context, key string, now time.Time) ([]byte, bool, error) {
	rec, err := repo.GetCacheEntry(ctx, s.DB, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec.Value, true, nil
}

// Set implements Backend.
func (s *SQLiteBackend) Set(ctx context.Context, key string, value []byte, now time.Time, ttl time.Duration) error {
	_, err := repo.PutCacheEntry(ctx, s.DB, key, value, now, ttl)
	return err
}

// Prune deletes expired rows.
func (s *SQLiteBackend) Prune(ctx context.Context, now time.Time) (int64, error) {
	return repo.DeleteExpiredCacheEntries(ctx, s.DB, now)
}

// RunPruner calls Prune every interval until ctx is done.
func (s *SQLiteBackend) RunPruner(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := s.Prune(ctx, now)
			if err != nil {
				log.Warn().Err(err).Msg("cache: prune failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("cache: pruned expired entries")
			}
		}
	}
}

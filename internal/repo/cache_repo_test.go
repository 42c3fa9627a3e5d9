package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-dog-catalog/internal/domain"
)

func newCacheDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid schema leakage across tests.
	dsn := fmt.Sprintf("file:cache_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestGetCacheEntry_MissingOrExpired_ReturnsNotFound(t *testing.T) {
	db := newCacheDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if rec, err := GetCacheEntry(ctx, db, "missing", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound), got (%v, %v)", rec, err)
	}

	if _, err := PutCacheEntry(ctx, db, "k", []byte(`"v"`), now.Add(-time.Hour), 30*time.Second); err != nil {
		t.Fatalf("PutCacheEntry: %v", err)
	}
	if rec, err := GetCacheEntry(ctx, db, "k", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected expired entry to be invisible, got (%v, %v)", rec, err)
	}
}

func TestPutCacheEntry_UpsertRefreshesValueAndExpiry(t *testing.T) {
	db := newCacheDB(t)
	ctx := context.Background()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := PutCacheEntry(ctx, db, "k", []byte(`1`), t0, 30*time.Second); err != nil {
		t.Fatalf("first put: %v", err)
	}
	t1 := t0.Add(40 * time.Second)
	if _, err := PutCacheEntry(ctx, db, "k", []byte(`2`), t1, 30*time.Second); err != nil {
		t.Fatalf("second put: %v", err)
	}

	rec, err := GetCacheEntry(ctx, db, "k", t1.Add(10*time.Second))
	if err != nil {
		t.Fatalf("GetCacheEntry: %v", err)
	}
	if string(rec.Value) != "2" {
		t.Fatalf("value = %q; want 2", rec.Value)
	}
	if !rec.ExpiresAt.Equal(t1.Add(30 * time.Second)) {
		t.Fatalf("expires_at = %v; want %v", rec.ExpiresAt, t1.Add(30*time.Second))
	}

	var count int64
	db.Model(&domain.CacheEntry{}).Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d; want 1", count)
	}
}

func TestDeleteExpiredCacheEntries(t *testing.T) {
	db := newCacheDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, _ = PutCacheEntry(ctx, db, "old", []byte(`1`), now.Add(-time.Minute), 30*time.Second)
	_, _ = PutCacheEntry(ctx, db, "fresh", []byte(`2`), now, 30*time.Second)

	n, err := DeleteExpiredCacheEntries(ctx, db, now)
	if err != nil {
		t.Fatalf("DeleteExpiredCacheEntries: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted = %d; want 1", n)
	}
	if _, err := GetCacheEntry(ctx, db, "fresh", now); err != nil {
		t.Fatalf("fresh entry gone: %v", err)
	}
}

func TestPurgeCacheEntries_RemovesLiveAndExpiredRows(t *testing.T) {
	db := newCacheDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := PutCacheEntry(ctx, db, "live", []byte(`1`), now, time.Hour); err != nil {
		t.Fatalf("put live: %v", err)
	}
	if _, err := PutCacheEntry(ctx, db, "old", []byte(`2`), now.Add(-time.Hour), time.Minute); err != nil {
		t.Fatalf("put old: %v", err)
	}

	n, err := PurgeCacheEntries(ctx, db)
	if err != nil || n != 2 {
		t.Fatalf("PurgeCacheEntries = (%d, %v); want (2, nil)", n, err)
	}
	if _, err := GetCacheEntry(ctx, db, "live", now); err != ErrNotFound {
		t.Fatalf("live entry survived purge: %v", err)
	}
}

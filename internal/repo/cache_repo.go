// Package repo implements the data persistence layer backed by GORM.
// This file provides helpers for the CacheEntry model used by the sqlite
// cache backend: TTL-filtered lookup, upsert, and expired-row pruning.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-dog-catalog/internal/domain"
)

// ErrNotFound indicates that no live row matched the lookup.
var ErrNotFound = errors.New("record not found")

// GetCacheEntry returns the entry for key if it has not expired at now,
// otherwise ErrNotFound.
func GetCacheEntry(ctx context.Context, db *gorm.DB, key string, now time.Time) (*domain.CacheEntry, error) {
	var rec domain.CacheEntry
	err := db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, now.UTC()).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// PutCacheEntry inserts or overwrites the entry for key with a fresh
// expiration of now+ttl.
func PutCacheEntry(ctx context.Context, db *gorm.DB, key string, value []byte, now time.Time, ttl time.Duration) (*domain.CacheEntry, error) {
	now = now.UTC()
	rec := &domain.CacheEntry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "created_at", "expires_at"}),
		}).
		Create(rec).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteExpiredCacheEntries removes rows whose expiration is at or before now
// and returns how many were deleted.
func DeleteExpiredCacheEntries(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&domain.CacheEntry{})
	return res.RowsAffected, res.Error
}

// PurgeCacheEntries removes every row, live or expired.
func PurgeCacheEntries(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.CacheEntry{})
	return res.RowsAffected, res.Error
}

// Package services – CatalogService
//
// This file implements the CatalogService, which composes the entity store
// and the read-through cache behind the catalog operations. Reads (list by
// kind, get by pk) go through the cache; writes go straight to the store and
// never touch the cache, so a read following a write to the same key may
// return data up to one TTL old.
//
// Store failures are translated 1:1 into service errors (ErrDuplicateKey,
// ErrNotFound) wrapped in a FieldError that names the pk field.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/tbourn/go-dog-catalog/internal/cache"
	"github.com/tbourn/go-dog-catalog/internal/domain"
	"github.com/tbourn/go-dog-catalog/internal/store"
)

// DogStore is the entity store contract required by CatalogService.
type DogStore interface {
	List(ctx context.Context, kind domain.Kind) ([]domain.Dog, error)
	Get(ctx context.Context, pk int) (domain.Dog, error)
	Insert(ctx context.Context, d domain.Dog) (domain.Dog, error)
	Replace(ctx context.Context, oldPK int, d domain.Dog) (domain.Dog, error)
	AppendPost(ctx context.Context) domain.Post
}

// CatalogService provides the dog and post operations.
// It is safe for concurrent use when Store and Cache are.
type CatalogService struct {
	Store DogStore
	Cache *cache.Cache
}

// NewCatalogService wires a service over s and c.
func NewCatalogService(s DogStore, c *cache.Cache) *CatalogService {
	return &CatalogService{Store: s, Cache: c}
}

// ListDogs returns the dogs of the given kind through the cache.
func (s *CatalogService) ListDogs(ctx context.Context, kind domain.Kind) ([]domain.Dog, error) {
	if !kind.Valid() {
		return nil, fieldErr("kind", ErrInvalidDog)
	}
	return cache.GetOrCompute(ctx, s.Cache, cache.Key("list", kind), func(ctx context.Context) ([]domain.Dog, error) {
		return s.Store.List(ctx, kind)
	})
}

// GetDog returns the dog with the given pk through the cache.
// A missing pk is not cached.
func (s *CatalogService) GetDog(ctx context.Context, pk int) (domain.Dog, error) {
	return cache.GetOrCompute(ctx, s.Cache, cache.Key("get", pk), func(ctx context.Context) (domain.Dog, error) {
		d, err := s.Store.Get(ctx, pk)
		if err != nil {
			return domain.Dog{}, translate(err)
		}
		return d, nil
	})
}

// CreateDog inserts d. A taken pk yields ErrDuplicateKey and leaves the
// existing record untouched.
func (s *CatalogService) CreateDog(ctx context.Context, d domain.Dog) (domain.Dog, error) {
	d, err := validate(d)
	if err != nil {
		return domain.Dog{}, err
	}
	out, err := s.Store.Insert(ctx, d)
	if err != nil {
		return domain.Dog{}, translate(err)
	}
	return out, nil
}

// UpdateDog replaces the dog stored under pk with d. d.PK may differ from pk
// as long as it is not owned by another dog.
func (s *CatalogService) UpdateDog(ctx context.Context, pk int, d domain.Dog) (domain.Dog, error) {
	d, err := validate(d)
	if err != nil {
		return domain.Dog{}, err
	}
	out, err := s.Store.Replace(ctx, pk, d)
	if err != nil {
		return domain.Dog{}, translate(err)
	}
	return out, nil
}

// CreatePost appends a post stamped with the current time.
func (s *CatalogService) CreatePost(ctx context.Context) (domain.Post, error) {
	return s.Store.AppendPost(ctx), nil
}

// validate enforces the entity invariants of a Dog and returns it trimmed.
func validate(d domain.Dog) (domain.Dog, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return d, fieldErr("name", ErrInvalidDog)
	}
	if !d.Kind.Valid() {
		return d, fieldErr("kind", ErrInvalidDog)
	}
	return d, nil
}

// translate maps store errors to service errors on the pk field.
func translate(err error) error {
	switch {
	case errors.Is(err, store.ErrConflict):
		return fieldErr("pk", ErrDuplicateKey)
	case errors.Is(err, store.ErrNotFound):
		return fieldErr("pk", ErrNotFound)
	default:
		return err
	}
}

// Package store holds the in-memory source of truth for dogs and posts.
//
// A single RWMutex guards both collections: reads proceed concurrently,
// mutations are mutually exclusive with each other and with reads. The store
// knows nothing about caching; it is re-seeded on every process start and
// discarded on stop.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tbourn/go-dog-catalog/internal/domain"
)

var (
	// ErrNotFound is returned when no dog has the requested pk.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a pk already belongs to another dog.
	ErrConflict = errors.New("pk already exists")
)

// Store is the entity store. The zero value is not usable; call New.
type Store struct {
	mu    sync.RWMutex
	dogs  []domain.Dog
	byPK  map[int]int // pk -> index into dogs
	posts []domain.Post

	now func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp posts.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		byPK: make(map[int]int),
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewSeeded returns a store initialized with the default dogs and posts.
func NewSeeded(opts ...Option) *Store {
	s := New(opts...)
	for _, d := range domain.SeedDogs() {
		s.byPK[d.PK] = len(s.dogs)
		s.dogs = append(s.dogs, d)
	}
	s.posts = append(s.posts, domain.SeedPosts()...)
	return s
}

// List returns the dogs of the given kind in insertion order.
func (s *Store) List(ctx context.Context, kind domain.Kind) ([]domain.Dog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Dog, 0)
	for _, d := range s.dogs {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out, nil
}

// Get returns the dog with the given pk or ErrNotFound.
func (s *Store) Get(ctx context.Context, pk int) (domain.Dog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byPK[pk]
	if !ok {
		return domain.Dog{}, ErrNotFound
	}
	return s.dogs[i], nil
}

// Insert adds d, failing with ErrConflict when d.PK is taken.
func (s *Store) Insert(ctx context.Context, d domain.Dog) (domain.Dog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byPK[d.PK]; exists {
		return domain.Dog{}, ErrConflict
	}
	s.byPK[d.PK] = len(s.dogs)
	s.dogs = append(s.dogs, d)
	return d, nil
}

// Replace overwrites the dog stored under oldPK with d, in place.
// It fails with ErrNotFound when oldPK is absent and with ErrConflict when
// d.PK differs from oldPK and already belongs to another dog.
func (s *Store) Replace(ctx context.Context, oldPK int, d domain.Dog) (domain.Dog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byPK[oldPK]
	if !ok {
		return domain.Dog{}, ErrNotFound
	}
	if d.PK != oldPK {
		if _, taken := s.byPK[d.PK]; taken {
			return domain.Dog{}, ErrConflict
		}
		delete(s.byPK, oldPK)
		s.byPK[d.PK] = i
	}
	s.dogs[i] = d
	return d, nil
}

// AppendPost records a new post stamped with the current time. Its id is the
// previous maximum id plus one, or 1 when the store holds no posts.
func (s *Store) AppendPost(ctx context.Context) domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := 1
	if n := len(s.posts); n > 0 {
		id = s.posts[n-1].ID + 1
	}
	p := domain.Post{ID: id, Timestamp: s.now().Unix()}
	s.posts = append(s.posts, p)
	return p
}

// Posts returns a copy of all posts in insertion order.
func (s *Store) Posts(ctx context.Context) []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Post(nil), s.posts...)
}

// Dogs returns a copy of all dogs in insertion order.
func (s *Store) Dogs(ctx context.Context) []domain.Dog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Dog(nil), s.dogs...)
}

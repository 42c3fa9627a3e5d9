// Package cache implements the read-through cache placed in front of the
// catalog's list and get reads.
//
// Values are stored JSON-encoded under a key derived from the operation name
// and its parameters, with a fixed expiration of now+TTL. There is no
// invalidation hook: a write does not touch cached reads, so a read that
// follows a write to the same key may observe data up to TTL old. After the
// TTL elapses the next read recomputes from the source.
//
// Backend failures never fail a read. On a backend error the value is
// computed directly and returned uncached; the failure is logged (throttled)
// and counted.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// DefaultTTL is the lifetime of a cache entry.
const DefaultTTL = 30 * time.Second

// Backend is the key-value store holding serialized entries. Implementations
// must be safe for concurrent use and must treat entries whose expiration is
// not after now as absent.
type Backend interface {
	Get(ctx context.Context, key string, now time.Time) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, now time.Time, ttl time.Duration) error
}

// Cache wraps a Backend with read-through semantics.
type Cache struct {
	backend Backend
	ttl     time.Duration
	prefix  string
	now     func() time.Time
	tracer  trace.Tracer

	// degraded throttles backend-failure warnings.
	degraded rate.Sometimes
}

// Option customizes a Cache.
type Option func(*Cache)

// WithTTL sets the entry lifetime. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithPrefix namespaces every key, e.g. "catalog-cache".
func WithPrefix(prefix string) Option {
	return func(c *Cache) { c.prefix = strings.TrimSpace(prefix) }
}

// WithClock overrides the time source used for expiration.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New returns a Cache over b.
func New(b Backend, opts ...Option) *Cache {
	c := &Cache{
		backend:  b,
		ttl:      DefaultTTL,
		now:      time.Now,
		tracer:   otel.Tracer("github.com/tbourn/go-dog-catalog/internal/cache"),
		degraded: rate.Sometimes{First: 1, Interval: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Key derives a deterministic cache key from an operation name and its
// parameters, e.g. Key("list", "terrier") == "list:terrier".
func Key(op string, params ...any) string {
	var b strings.Builder
	b.WriteString(op)
	for _, p := range params {
		b.WriteByte(':')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// GetOrCompute returns the live cached value for key, or calls compute,
// stores its result with a fresh expiration and returns it. Errors from
// compute are returned as-is and never cached.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, compute func(context.Context) (T, error)) (T, error) {
	op := operation(key)
	ctx, span := c.tracer.Start(ctx, "cache.GetOrCompute", trace.WithAttributes(
		attribute.String("cache.key", key),
	))
	defer span.End()

	full := c.fullKey(key)
	now := c.now()

	raw, ok, err := c.backend.Get(ctx, full, now)
	switch {
	case err != nil:
		c.warn("get", key, err)
		cacheRequests.WithLabelValues(op, resultError).Inc()
		span.SetAttributes(attribute.String("cache.result", resultError))
		return compute(ctx)
	case ok:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			cacheRequests.WithLabelValues(op, resultHit).Inc()
			span.SetAttributes(attribute.String("cache.result", resultHit))
			return v, nil
		}
		log.Debug().Str("key", key).Msg("cache: undecodable entry, recomputing")
	}

	cacheRequests.WithLabelValues(op, resultMiss).Inc()
	span.SetAttributes(attribute.String("cache.result", resultMiss))

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}

	b, err := json.Marshal(v)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache: value not encodable, skipping store")
		return v, nil
	}
	if err := c.backend.Set(ctx, full, b, now, c.ttl); err != nil {
		c.warn("set", key, err)
		cacheRequests.WithLabelValues(op, resultError).Inc()
	}
	return v, nil
}

func (c *Cache) fullKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

func (c *Cache) warn(stage, key string, err error) {
	c.degraded.Do(func() {
		log.Warn().Err(err).Str("stage", stage).Str("key", key).Msg("cache backend unavailable, serving uncached")
	})
}

// operation returns the op component of a key built by Key.
func operation(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

// Package cache provides the keyed read-cache shared by handlers and
// the mutation layer. Values are stored as JSON under well-known keys
// ("bookings", "settings", "user:<id>", ...). Mutations reconcile the
// cache with one of two policies:
//
//   - Replace: the mutation concerns exactly one cached object and its
//     post-write shape is known from the server response, so the entry
//     is overwritten in place (e.g. the current user after a profile
//     update).
//   - Invalidate: the write's effect on a derived list (ordering,
//     membership) cannot be inferred locally, so the entry is dropped
//     and the next read re-fetches (e.g. the bookings list).
//
// Concurrent writers to the same key race; the last write or
// invalidate wins. Writers to different keys are independent.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the raw byte-level backend behind the Service. The Redis
// implementation is used in production; the memory implementation
// backs tests and single-process deployments without Redis.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Well-known cache keys. Handlers and mutations must agree on these.
const (
	KeyCabins   = "cabins"
	KeyBookings = "bookings"
	KeySettings = "settings"
)

// UserKey returns the cache key for a single staff user's record.
func UserKey(id uint64) string {
	return "user:" + itoa(id)
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var b [20]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}

// Service is the application-facing cache handle. It is passed
// explicitly to the components that need it rather than living in a
// package-level singleton.
type Service struct {
	store Store
	ttl   time.Duration
}

// New returns a Service over the given store. ttl bounds how long a
// cached read may serve before the next read re-fetches anyway.
func New(store Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{store: store, ttl: ttl}
}

// Get unmarshals the cached value under key into dst. The second
// return is false on a miss; a decode failure is treated as a miss so
// a stale or corrupt entry never breaks a read path.
func (s *Service) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		_ = s.store.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

// Replace overwrites the entry under key with the given value. This is
// the direct-replacement policy for single-entity keys.
func (s *Service) Replace(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, raw, s.ttl)
}

// Invalidate drops the entry under key so the next read re-fetches
// from the store. Invalidating an absent key is a no-op.
func (s *Service) Invalidate(ctx context.Context, key string) error {
	return s.store.Del(ctx, key)
}

// RedisStore backs the cache with Redis.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore wraps a Redis client. The prefix namespaces entries so
// the read cache never collides with the response cache or the rate
// limiter sharing the same server.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "readcache"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (r *RedisStore) key(k string) string { return r.prefix + ":" + k }

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.rdb.SetEx(ctx, r.key(key), value, ttl).Err()
}

func (r *RedisStore) Del(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.key(key)).Err()
}

// MemoryStore is a process-local Store used in tests and when Redis is
// unavailable. Entries expire lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || (!e.expires.IsZero() && time.Now().After(e.expires)) {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: append([]byte(nil), value...), expires: exp}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

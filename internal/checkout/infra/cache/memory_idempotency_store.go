package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront/internal/checkout/app"
)

type entry struct {
	value   string
	expires time.Time
}

// MemoryIdempotencyStore mirrors RedisIdempotencyStore for single-process
// deployments and tests.
type MemoryIdempotencyStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	entries   map[string]entry
	nextSweep time.Time
	now       func() time.Time
}

func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryIdempotencyStore) TryLock(ctx context.Context, scope, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	k := lockKey(scope, key)
	if _, ok := s.liveLocked(k); ok {
		return false, nil
	}
	s.entries[k] = entry{value: "1", expires: s.now().Add(s.ttl)}
	return true, nil
}

func (s *MemoryIdempotencyStore) Remember(ctx context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.entries[valueKey(scope, key)] = entry{value: value, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryIdempotencyStore) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.liveLocked(valueKey(scope, key))
	return e.value, ok, nil
}

func (s *MemoryIdempotencyStore) Release(ctx context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, lockKey(scope, key))
	return nil
}

func (s *MemoryIdempotencyStore) liveLocked(k string) (entry, bool) {
	e, ok := s.entries[k]
	if !ok {
		return entry{}, false
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, k)
		return entry{}, false
	}
	return e, true
}

// sweepLocked drops expired entries, at most once per ttl. Keys embed the
// cart version, so most are never read again after they expire.
func (s *MemoryIdempotencyStore) sweepLocked() {
	now := s.now()
	if now.Before(s.nextSweep) {
		return
	}
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
	s.nextSweep = now.Add(s.ttl)
}

var _ app.IdempotencyStore = (*MemoryIdempotencyStore)(nil)

package kvstore

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time // zero = no expiry
}

// MemoryStore is a mutex-guarded in-process Store used by tests and local
// development. Expiry is evaluated lazily on access against Now, which tests
// may override.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]entry

	Now func() time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]entry),
		Now:  time.Now,
	}
}

func (s *MemoryStore) get(key string) (entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !s.Now().Before(e.expiresAt) {
		delete(s.data, key)
		return entry{}, false
	}
	return e, true
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.get(key)
	if !ok {
		return "", ErrNotFound
	}
	return e.value, nil
}

func (s *MemoryStore) SetEX(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{value: value, expiresAt: s.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.get(key)
	count := int64(0)
	if ok {
		n, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, err
		}
		count = n
	}
	count++
	s.data[key] = entry{value: strconv.FormatInt(count, 10), expiresAt: e.expiresAt}
	return count, nil
}

func (s *MemoryStore) ExpireNX(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.get(key)
	if !ok || !e.expiresAt.IsZero() {
		return nil
	}
	e.expiresAt = s.Now().Add(ttl)
	s.data[key] = e
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

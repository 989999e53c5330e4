package cache

import (
	"context"
	"reflect"
	"sync"
	"time"
)

// Store memoizes computed reports under deterministic keys with a bounded
// TTL. Expiry is time-based only; Clear drops everything wholesale.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Clear(ctx context.Context) error
}

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

// MemoryStore is the in-process Store. Values are stored by reference, so a
// hit returns the exact previously computed report object.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// WithClock overrides the time source, used by tests to force expiry.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// Get loads a live entry into dest (which must be a pointer to the stored type).
func (s *MemoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || s.now().After(entry.expiresAt) {
		return false, nil
	}
	assign(dest, entry.value)
	return true, nil
}

// Set stores value under key for ttl.
func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

// Clear drops all entries.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}

func assign(dest, value any) {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return
	}
	vv := reflect.ValueOf(value)
	if vv.IsValid() && vv.Type().AssignableTo(dv.Elem().Type()) {
		dv.Elem().Set(vv)
	}
}

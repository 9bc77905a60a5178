package cache

import (
	"sync"
	"time"
)

// localEntry is a value held by the fallback tier together with its absolute
// expiry. Entries are never shared outside the process.
type localEntry struct {
	value     interface{}
	expiresAt time.Time
}

// LocalStore is the process-local fallback tier: a mutex-guarded map from key
// to value with absolute expiry. It performs no I/O and is bounded only by
// time-based eviction; entries are lost on process restart.
//
// An entry whose expiry has passed is logically absent: both Get and
// DeleteExpired treat it as such and reclaim it.
type LocalStore struct {
	mu      sync.Mutex
	entries map[string]localEntry
	now     func() time.Time
}

// NewLocalStore creates an empty fallback store.
func NewLocalStore() *LocalStore {
	return &LocalStore{
		entries: make(map[string]localEntry),
		now:     time.Now,
	}
}

// Get returns the value for key, or a miss if the key is absent or expired.
// An expired entry is deleted as a side effect.
func (s *LocalStore) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.After(s.now()) {
		delete(s.entries, key)
		return nil, false
	}
	return entry.value, true
}

// Set inserts or overwrites the entry for key. It always succeeds, bounded
// only by process memory. A non-positive ttl produces an already-expired
// entry.
func (s *LocalStore) Set(key string, value interface{}, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = localEntry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
}

// Delete removes key and reports whether a removal occurred.
func (s *LocalStore) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	return ok
}

// DeleteExpired sweeps the store once, removing every entry whose expiry has
// passed, and returns the number of entries removed. Calling it again
// immediately removes nothing new.
func (s *LocalStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if !entry.expiresAt.After(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, including entries that
// have expired but not yet been reclaimed.
func (s *LocalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

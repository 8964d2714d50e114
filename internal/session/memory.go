package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data      *Data
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. State is lost on restart,
// which matches the contract: sessions are transient and cookie-scoped.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemoryStore creates an in-memory store. A ttl of zero disables
// server-side expiry; sessions then live until Clear or process exit.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get returns the session data for the token, or (nil, nil) if absent or
// expired. The returned value is a copy; callers persist mutations with Set.
func (s *MemoryStore) Get(_ context.Context, token string) (*Data, error) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, token)
		s.mu.Unlock()
		return nil, nil
	}
	return entry.data.clone(), nil
}

// Set stores the session data under the token, replacing any prior value.
func (s *MemoryStore) Set(_ context.Context, token string, data *Data) error {
	entry := memoryEntry{data: data.clone()}
	if s.ttl > 0 {
		entry.expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[token] = entry
	s.mu.Unlock()
	return nil
}

// Clear removes all state for the token.
func (s *MemoryStore) Clear(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

// Len reports the number of live sessions. Used by tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (d *Data) clone() *Data {
	if d == nil {
		return nil
	}
	out := &Data{Income: d.Income}
	if d.User != nil {
		u := *d.User
		out.User = &u
	}
	out.Transactions = make([]Expense, len(d.Transactions))
	copy(out.Transactions, d.Transactions)
	return out
}

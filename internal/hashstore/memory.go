package hashstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests, grounded on the
// teacher's store.MemoryStore sync.RWMutex pattern.
type MemoryStore struct {
	mu        sync.Mutex
	available map[string]bool
	seq       int64
}

// NewMemoryStore creates a new in-memory hash store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{available: make(map[string]bool)}
}

func (m *MemoryStore) NextSequence(_ context.Context, n int) ([]int64, error) {
	if n <= 0 {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]int64, n)
	for i := range out {
		m.seq++
		out[i] = m.seq
	}

	return out, nil
}

func (m *MemoryStore) InsertIfAbsent(_ context.Context, hashes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range hashes {
		if _, ok := m.available[h]; !ok {
			m.available[h] = true
		}
	}

	return nil
}

func (m *MemoryStore) ClaimAvailable(_ context.Context, n int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var candidates []string

	for h, ok := range m.available {
		if ok {
			candidates = append(candidates, h)
		}
	}

	sort.Strings(candidates)

	if len(candidates) > n {
		candidates = candidates[:n]
	}

	for _, h := range candidates {
		m.available[h] = false
	}

	return candidates, nil
}

func (m *MemoryStore) MarkUsed(_ context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.available[hash] = false

	return nil
}

func (m *MemoryStore) ReleaseAvailable(_ context.Context, hashes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range hashes {
		m.available[h] = true
	}

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, hashes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range hashes {
		delete(m.available, h)
	}

	return nil
}

// IsAvailable is a test helper exposing the current state of a hash.
func (m *MemoryStore) IsAvailable(hash string) (available, known bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	available, known = m.available[hash]

	return available, known
}

var _ Store = (*MemoryStore)(nil)

package urlstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Kalex-k/urlshortener/internal/apperr"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu     sync.Mutex
	byHash map[string]Record
	byURL  map[string]string // url -> hash
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byHash: make(map[string]Record),
		byURL:  make(map[string]string),
	}
}

func (m *MemoryStore) Insert(_ context.Context, hash, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byURL[url]; exists {
		return false, nil
	}

	if _, exists := m.byHash[hash]; exists {
		return false, fmt.Errorf("urlstore: insert: %w", apperr.ErrConflictHash)
	}

	m.byHash[hash] = Record{Hash: hash, URL: url, CreatedAt: time.Now().UTC()}
	m.byURL[url] = hash

	return true, nil
}

func (m *MemoryStore) FindByHash(_ context.Context, hash string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byHash[hash]
	if !ok {
		return "", false, nil
	}

	return rec.URL, true, nil
}

func (m *MemoryStore) FindByURL(_ context.Context, url string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash, ok := m.byURL[url]
	if !ok {
		return "", false, nil
	}

	return hash, true, nil
}

func (m *MemoryStore) FindOldHashes(_ context.Context, cutoff time.Time, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string

	for _, rec := range m.byHash {
		if rec.CreatedAt.Before(cutoff) {
			out = append(out, rec.Hash)
			if len(out) >= limit {
				break
			}
		}
	}

	return out, nil
}

func (m *MemoryStore) DeleteByHashes(_ context.Context, hashes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range hashes {
		rec, ok := m.byHash[h]
		if !ok {
			continue
		}

		delete(m.byHash, h)
		delete(m.byURL, rec.URL)
	}

	return nil
}

// SeedWithCreatedAt is a test helper to insert a record with an explicit
// created_at, used by cleaner tests that need rows to look old.
func (m *MemoryStore) SeedWithCreatedAt(hash, url string, createdAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byHash[hash] = Record{Hash: hash, URL: url, CreatedAt: createdAt}
	m.byURL[url] = hash
}

var _ Store = (*MemoryStore)(nil)

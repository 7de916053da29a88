package pool

import (
	"context"
	"sync"
)

// MemoryPool is an in-memory FIFO Pool for tests.
type MemoryPool struct {
	mu     sync.Mutex
	hashes []string
}

// NewMemoryPool creates a new in-memory hash pool.
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{}
}

func (p *MemoryPool) PushBack(_ context.Context, hashes []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.hashes = append(p.hashes, hashes...)

	return nil
}

func (p *MemoryPool) PopFront(_ context.Context) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.hashes) == 0 {
		return "", false, nil
	}

	hash := p.hashes[0]
	p.hashes = p.hashes[1:]

	return hash, true, nil
}

func (p *MemoryPool) Size(_ context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.hashes), nil
}

var _ Pool = (*MemoryPool)(nil)

// Package pool is the pre-generated hash pool (C5): a FIFO of available
// hashes that C9 drains on every creation request, refilled by C7.
package pool

import "context"

// Pool is the hash pool contract. PopFront returns ("", false, nil) when
// the pool is empty, never an error — callers fall back to C6/C2.
type Pool interface {
	PushBack(ctx context.Context, hashes []string) error
	PopFront(ctx context.Context) (hash string, ok bool, err error)
	Size(ctx context.Context) (int, error)
}

// Package hashstore is the durable record of every identifier ever
// minted and whether it is currently available for assignment (C2).
package hashstore

import "context"

// Store is the durable hash table contract.
type Store interface {
	// NextSequence returns n strictly increasing positive integers,
	// never reused across calls.
	NextSequence(ctx context.Context, n int) ([]int64, error)

	// InsertIfAbsent inserts each hash as available=true. Duplicates
	// are silently ignored.
	InsertIfAbsent(ctx context.Context, hashes []string) error

	// ClaimAvailable atomically marks up to n available=true rows as
	// available=false and returns the claimed hashes. It must not
	// block indefinitely on contended rows and must never return the
	// same row to two concurrent callers.
	ClaimAvailable(ctx context.Context, n int) ([]string, error)

	// MarkUsed upserts (hash, available=false). Used only by the
	// on-the-fly fallback path.
	MarkUsed(ctx context.Context, hash string) error

	// ReleaseAvailable inserts-or-updates each hash to available=true.
	// Idempotent.
	ReleaseAvailable(ctx context.Context, hashes []string) error

	// Delete removes rows outright. Used only to compensate a
	// cleaner run interrupted between release and delete.
	Delete(ctx context.Context, hashes []string) error
}

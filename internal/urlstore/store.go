// Package urlstore is the durable hash<->url mapping (C3): hash is the
// primary key, url carries a unique index, and created_at is set once.
package urlstore

import (
	"context"
	"time"
)

// Record is one persisted hash<->url mapping.
type Record struct {
	Hash      string
	URL       string
	CreatedAt time.Time
}

// Store is the durable URL table contract.
type Store interface {
	// Insert succeeds (true, nil) iff neither hash nor url already
	// exists. On url conflict it returns (false, nil). On hash
	// conflict it returns apperr.ErrConflictHash. On any other
	// integrity violation it returns apperr.ErrIntegrity.
	Insert(ctx context.Context, hash, url string) (inserted bool, err error)

	FindByHash(ctx context.Context, hash string) (url string, found bool, err error)
	FindByURL(ctx context.Context, url string) (hash string, found bool, err error)

	// FindOldHashes returns up to limit hashes whose row predates cutoff.
	FindOldHashes(ctx context.Context, cutoff time.Time, limit int) ([]string, error)

	// DeleteByHashes deletes rows by hash. Paired with FindOldHashes by
	// the cleaner's saga; never combined into one statement (spec.md
	// §9: "deleteOldUrlsAndReturnHashes" is deprecated and unused).
	DeleteByHashes(ctx context.Context, hashes []string) error
}

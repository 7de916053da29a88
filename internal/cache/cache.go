// Package cache is the two-direction URL cache (C8): hash->url and
// url->hash, both advisory — a cache failure never fails the request,
// it only costs a store round trip. Grounded on the original
// UrlCacheRepository's two-key Redis layout.
package cache

import "context"

// Cache is the URL cache contract.
type Cache interface {
	Get(ctx context.Context, hash string) (url string, found bool)
	GetHashByURL(ctx context.Context, url string) (hash string, found bool)

	// Put populates both directions in one call, the way cacheURL did
	// for the teacher's write-through decorator.
	Put(ctx context.Context, hash, url string)

	Evict(ctx context.Context, hash, url string)
}

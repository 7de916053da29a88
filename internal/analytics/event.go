// Package analytics holds the event types published by the creation
// and resolution pipelines and the Store contract that persists them,
// repurposing the teacher's Code/Strategy-shaped events for the
// sequence-derived hash model: principal replaces client-only
// attribution, and FromCache surfaces the resolution pipeline's
// cache-vs-store path per spec.md §4.10.
package analytics

import "time"

const (
	// TopicURLCreated is the topic the creation pipeline publishes to.
	TopicURLCreated = "url.created"
	// TopicURLAccessed is the topic the resolution pipeline publishes to.
	TopicURLAccessed = "url.accessed"
)

// URLCreatedEvent is emitted once a short hash has been persisted.
type URLCreatedEvent struct {
	Hash        string    `json:"hash"`
	OriginalURL string    `json:"originalUrl"`
	Principal   string    `json:"principal,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// URLAccessedEvent is emitted on every resolved redirect.
type URLAccessedEvent struct {
	Hash       string    `json:"hash"`
	Principal  string    `json:"principal,omitempty"`
	AccessedAt time.Time `json:"accessedAt"`
	FromCache  bool      `json:"fromCache"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer"`
}

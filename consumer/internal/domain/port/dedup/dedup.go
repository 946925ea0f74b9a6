package dedup

import "context"

// Deduplicator remembers which deliveries already happened so redelivered
// messages are not sent twice.
type Deduplicator interface {
	// Claim marks key as in flight. It returns false when key was already
	// claimed.
	Claim(ctx context.Context, key string) (bool, error)
	// Release forgets key so a later retry can claim it again.
	Release(ctx context.Context, key string) error
}

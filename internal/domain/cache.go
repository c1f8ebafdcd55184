package domain

import (
	"context"
	"time"
)

// CacheError is an error reported by a Cache implementation.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss means the key holds nothing.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache stores serialized published quizzes keyed by share link.
// A cache failure never fails a request; callers fall back to the repository.
type Cache interface {
	// Get returns ErrCacheMiss for an absent key.
	Get(ctx context.Context, key string) (string, error)
	// Set with a zero ttl keeps the value until it is deleted.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Delete of an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

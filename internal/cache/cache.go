package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache: miss")

// Cache defines the interface for the read-through caches in front of the
// catalog and settings reads. Failures other than ErrMiss are treated as
// misses by callers, never as fatal.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Noop satisfies Cache without storing anything. It stands in when no
// Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, error) { return "", ErrMiss }

func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }

func (Noop) Delete(context.Context, string) error { return nil }

package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is a byte cache with namespace versions. Bumping a namespace's
// version orphans every key built from the previous version, which is how
// writers invalidate whole result sets without scanning.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Version(ctx context.Context, namespace string) (int64, error)
	Bump(ctx context.Context, namespace string) error
	Close() error
}

// Noop never stores anything. It is used when Redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Version(context.Context, string) (int64, error) { return 0, nil }
func (Noop) Bump(context.Context, string) error { return nil }
func (Noop) Close() error { return nil }

package interfaces

import (
	"context"
	"errors"
)

// ErrNotFound is returned by backends for keys that were never written or were removed.
var ErrNotFound = errors.New("storage: key not found")

type BackendInterface interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

package storage

import (
	"context"
	"kickoff/internal/storage/interfaces"
)

// unavailableBackend stands in for a backend that could not be opened.
// Reads miss and writes are dropped.
type unavailableBackend struct {
	name string
}

func (u *unavailableBackend) Name() string { return u.name + "(unavailable)" }
func (u *unavailableBackend) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, interfaces.ErrNotFound
}
func (u *unavailableBackend) Set(_ context.Context, _ string, _ []byte) error { return nil }
func (u *unavailableBackend) Remove(_ context.Context, _ string) error        { return nil }
func (u *unavailableBackend) Close() error                                    { return nil }

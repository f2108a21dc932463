package interfaces

import "context"

// StorageInterface never reports failures: a broken backend reads as empty.
type StorageInterface interface {
	GetItem(ctx context.Context, name string) (string, bool)
	SetItem(ctx context.Context, name, value string)
	RemoveItem(ctx context.Context, name string)
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"github.com/zalando/go-keyring"
	"kickoff/internal/storage/interfaces"
)

const keyringProbeKey = "__probe__"

// KeyringBackend stores values in the OS keyring (Keychain, secret-service,
// Credential Manager). Values are kept uncompressed: keyrings only take strings.
type KeyringBackend struct {
	service string
}

func OpenKeyringBackend(service string) (*KeyringBackend, error) {
	if service == "" {
		return nil, errors.New("keyring backend: service must not be empty")
	}
	if _, err := keyring.Get(service, keyringProbeKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("keyring backend: %w", err)
	}
	return &KeyringBackend{service: service}, nil
}

func (k *KeyringBackend) Name() string {
	return "keyring"
}

func (k *KeyringBackend) Get(_ context.Context, key string) ([]byte, error) {
	val, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, interfaces.ErrNotFound
		}
		return nil, err
	}
	return []byte(val), nil
}

func (k *KeyringBackend) Set(_ context.Context, key string, value []byte) error {
	return keyring.Set(k.service, key, string(value))
}

func (k *KeyringBackend) Remove(_ context.Context, key string) error {
	err := keyring.Delete(k.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

func (k *KeyringBackend) Close() error {
	return nil
}

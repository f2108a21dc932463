package storage

import (
	"context"
	"errors"
	"fmt"
	"kickoff/internal/providers"
	"kickoff/internal/storage/interfaces"
	"kickoff/internal/structures"
	"time"
)

const (
	BackendFile    = "file"
	BackendSqlite  = "sqlite"
	BackendKeyring = "keyring"
)

// Adapter is the single entry point to local storage. Every failure below it
// is logged and turned into a miss or a dropped write.
type Adapter struct {
	backend interfaces.BackendInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewAdapter(backend interfaces.BackendInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Adapter {
	return &Adapter{backend: backend, logger: logger, metrics: metrics}
}

// NewStorageProvider opens the backend named by storage.backend once, at startup.
func NewStorageProvider(conf *structures.Config, logger providers.Logger, compressor interfaces.CompressorInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *Adapter {
	backend := NewBackend(conf.Storage.Backend, conf, compressor, logger)
	return NewAdapter(NewCachedBackend(backend, cache), logger, metrics)
}

// NewBackend never fails: a backend that cannot be opened is replaced by one
// that behaves like empty storage.
func NewBackend(name string, conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) interfaces.BackendInterface {
	var (
		backend interfaces.BackendInterface
		err     error
	)
	switch name {
	case BackendFile:
		backend, err = OpenFileBackend(conf.Storage.Dir, compressor)
	case BackendSqlite:
		backend, err = OpenSqliteBackend(conf.Storage.SqlitePath, compressor)
	case BackendKeyring:
		backend, err = OpenKeyringBackend(conf.Storage.Service)
	default:
		err = fmt.Errorf("unknown storage backend %q", name)
	}
	if err != nil {
		logger.Warnf(providers.TypeStorage, "Storage backend %s unavailable, falling back to empty storage: %s", name, err)
		return &unavailableBackend{name: name}
	}
	logger.Infof(providers.TypeStorage, "Storage backend %s ready", name)
	return backend
}

func (a *Adapter) Backend() string {
	if a == nil || a.backend == nil {
		return "none"
	}
	return a.backend.Name()
}

func (a *Adapter) guard(op, name string) {
	if r := recover(); r != nil {
		a.fail(op, name, fmt.Errorf("panic: %v", r))
	}
}

func (a *Adapter) fail(op, name string, err error) {
	a.metrics.IncStorageFailures(op)
	a.logger.Errorf(providers.TypeStorage, "Storage %s %q failed: %s", op, name, err)
}

func (a *Adapter) GetItem(ctx context.Context, name string) (value string, ok bool) {
	if a == nil || a.backend == nil {
		return "", false
	}
	defer a.guard("get", name)

	start := time.Now()
	data, err := a.backend.Get(ctx, name)
	a.metrics.ObserveStorageDuration("get", time.Since(start))
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			a.fail("get", name, err)
		}
		return "", false
	}
	return string(data), true
}

func (a *Adapter) SetItem(ctx context.Context, name, value string) {
	if a == nil || a.backend == nil {
		return
	}
	defer a.guard("set", name)

	start := time.Now()
	err := a.backend.Set(ctx, name, []byte(value))
	a.metrics.ObserveStorageDuration("set", time.Since(start))
	if err != nil {
		a.fail("set", name, err)
	}
}

func (a *Adapter) RemoveItem(ctx context.Context, name string) {
	if a == nil || a.backend == nil {
		return
	}
	defer a.guard("remove", name)

	start := time.Now()
	err := a.backend.Remove(ctx, name)
	a.metrics.ObserveStorageDuration("remove", time.Since(start))
	if err != nil {
		a.fail("remove", name, err)
	}
}

func (a *Adapter) Close() error {
	if a == nil || a.backend == nil {
		return nil
	}
	return a.backend.Close()
}

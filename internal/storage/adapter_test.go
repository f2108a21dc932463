package storage

import (
	"context"
	"errors"
	"kickoff/internal/structures"
	"kickoff/internal/testutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickingBackend struct {
	*testutil.MockBackend
}

func (p *panickingBackend) Get(_ context.Context, _ string) ([]byte, error) {
	panic("boom")
}

func newTestAdapter(backend *testutil.MockBackend) (*Adapter, *testutil.MockLogger, *testutil.MockMetrics) {
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	return NewAdapter(backend, logger, metrics), logger, metrics
}

func TestAdapter_RoundTrip(t *testing.T) {
	a, _, _ := newTestAdapter(testutil.NewMockBackend())
	ctx := context.Background()

	_, ok := a.GetItem(ctx, "k")
	assert.False(t, ok)

	a.SetItem(ctx, "k", "v")
	val, ok := a.GetItem(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)

	a.RemoveItem(ctx, "k")
	_, ok = a.GetItem(ctx, "k")
	assert.False(t, ok)
}

func TestAdapter_SwallowsBackendErrors(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.GetErr = errors.New("disk on fire")
	backend.SetErr = errors.New("disk on fire")
	backend.RemoveErr = errors.New("disk on fire")
	a, logger, metrics := newTestAdapter(backend)
	ctx := context.Background()

	val, ok := a.GetItem(ctx, "k")
	assert.False(t, ok)
	assert.Empty(t, val)
	a.SetItem(ctx, "k", "v")
	a.RemoveItem(ctx, "k")

	assert.Equal(t, 3, logger.Count("error", "Storage %s %q failed"))
	assert.Equal(t, 1, metrics.StorageFailures["get"])
	assert.Equal(t, 1, metrics.StorageFailures["set"])
	assert.Equal(t, 1, metrics.StorageFailures["remove"])
}

func TestAdapter_MissIsNotLogged(t *testing.T) {
	a, logger, _ := newTestAdapter(testutil.NewMockBackend())

	_, ok := a.GetItem(context.Background(), "absent")
	assert.False(t, ok)
	assert.Empty(t, logger.Logs)
}

func TestAdapter_RecoversFromPanic(t *testing.T) {
	logger := &testutil.MockLogger{}
	backend := &panickingBackend{MockBackend: testutil.NewMockBackend()}
	a := NewAdapter(backend, logger, testutil.NewMockMetrics())

	val, ok := a.GetItem(context.Background(), "k")
	assert.False(t, ok)
	assert.Empty(t, val)
	assert.Equal(t, 1, logger.Count("error", "failed"))
}

func TestAdapter_NilIsSoftMiss(t *testing.T) {
	var a *Adapter
	ctx := context.Background()

	_, ok := a.GetItem(ctx, "k")
	assert.False(t, ok)
	a.SetItem(ctx, "k", "v")
	a.RemoveItem(ctx, "k")
	assert.NoError(t, a.Close())
	assert.Equal(t, "none", a.Backend())
}

func TestNewBackend_UnavailableFallsBack(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	conf := &structures.Config{Storage: structures.StorageConfig{Dir: filepath.Join(file, "kv")}}
	logger := &testutil.MockLogger{}

	b := NewBackend(BackendFile, conf, &testutil.MockCompressor{}, logger)
	assert.IsType(t, &unavailableBackend{}, b)
	assert.Equal(t, 1, logger.Count("warn", "unavailable"))
}

func TestNewBackend_UnknownName(t *testing.T) {
	b := NewBackend("indexeddb", &structures.Config{}, &testutil.MockCompressor{}, &testutil.MockLogger{})
	assert.IsType(t, &unavailableBackend{}, b)
}

func TestNewStorageProvider_SelectsConfiguredBackend(t *testing.T) {
	conf := &structures.Config{Storage: structures.StorageConfig{
		Backend:    BackendSqlite,
		SqlitePath: filepath.Join(t.TempDir(), "kickoff.db"),
	}}
	a := NewStorageProvider(conf, &testutil.MockLogger{}, &testutil.MockCompressor{}, testutil.NewMockCache(), testutil.NewMockMetrics())
	defer a.Close()

	assert.Equal(t, BackendSqlite, a.Backend())
	a.SetItem(context.Background(), "k", "v")
	val, ok := a.GetItem(context.Background(), "k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

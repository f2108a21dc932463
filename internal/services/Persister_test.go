package services

import (
	"context"
	"kickoff/internal/storage"
	"kickoff/internal/testutil"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPersister(t *testing.T) (*Persister, *testutil.MockBackend, *testutil.MockLogger) {
	t.Helper()
	backend := testutil.NewMockBackend()
	logger := &testutil.MockLogger{}
	p := NewPersister(storage.NewAdapter(backend, logger, testutil.NewMockMetrics()), logger)
	t.Cleanup(p.Stop)
	return p, backend, logger
}

func flush(t *testing.T, p *Persister) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Flush(ctx))
}

func TestPersister_SaveThenFlush(t *testing.T) {
	p, backend, _ := newTestPersister(t)

	p.Save("k", map[string]int{"a": 1})
	flush(t, p)

	val, ok := backend.Value("k")
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, val)
}

func TestPersister_LatestValueWins(t *testing.T) {
	p, backend, _ := newTestPersister(t)

	for i := 0; i < 100; i++ {
		p.Save("counter", i)
	}
	flush(t, p)

	val, ok := backend.Value("counter")
	require.True(t, ok)
	assert.Equal(t, "99", val)
}

func TestPersister_RemoveAfterSave(t *testing.T) {
	p, backend, _ := newTestPersister(t)

	p.Save("k", "v")
	p.Remove("k")
	flush(t, p)

	_, ok := backend.Value("k")
	assert.False(t, ok)
}

func TestPersister_LoadSeesPendingWrite(t *testing.T) {
	p, _, _ := newTestPersister(t)
	ctx := context.Background()

	p.Save("k", "pending")
	raw, ok := p.Load(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, `"pending"`, string(raw))

	p.Remove("k")
	_, ok = p.Load(ctx, "k")
	assert.False(t, ok)
}

func TestPersister_LoadFromStorage(t *testing.T) {
	p, backend, _ := newTestPersister(t)
	backend.Data["k"] = []byte(`{"x":true}`)

	raw, ok := p.Load(context.Background(), "k")
	require.True(t, ok)
	assert.JSONEq(t, `{"x":true}`, string(raw))

	_, ok = p.Load(context.Background(), "missing")
	assert.False(t, ok)
}

func TestPersister_StopDrainsAndWritesInline(t *testing.T) {
	p, backend, _ := newTestPersister(t)

	p.Save("before", 1)
	p.Stop()
	_, ok := backend.Value("before")
	assert.True(t, ok)

	p.Save("after", 2)
	val, ok := backend.Value("after")
	require.True(t, ok)
	assert.Equal(t, "2", val)

	// Flush and Stop stay safe after stop
	require.NoError(t, p.Flush(context.Background()))
	p.Stop()
}

func TestPersister_FlushHonorsContext(t *testing.T) {
	p, _, _ := newTestPersister(t)
	p.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// stopped persister returns immediately, cancelled or not
	assert.NoError(t, p.Flush(ctx))
}

func TestPersister_StorageFailureIsSwallowed(t *testing.T) {
	p, backend, logger := newTestPersister(t)
	backend.SetErr = assert.AnError

	p.Save("k", "v")
	flush(t, p)

	_, ok := backend.Value("k")
	assert.False(t, ok)
	assert.Equal(t, 1, logger.Count("error", ""))
}

func TestPersister_ConcurrentSaves(t *testing.T) {
	p, backend, _ := newTestPersister(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p.Save("shared", i)
		}(i)
	}
	wg.Wait()
	flush(t, p)

	_, ok := backend.Value("shared")
	assert.True(t, ok)
}

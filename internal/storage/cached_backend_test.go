package storage

import (
	"context"
	"errors"
	"kickoff/internal/testutil"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedBackend_ReadThrough(t *testing.T) {
	inner := testutil.NewMockBackend()
	inner.Data["k"] = []byte("v")
	cache := testutil.NewMockCache()
	c := NewCachedBackend(inner, cache)

	val, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(val))

	cached, ok := cache.Get("mock:k")
	assert.True(t, ok)
	assert.Equal(t, "v", string(cached))

	// served from cache even if the backend now fails
	inner.GetErr = errors.New("gone")
	val, err = c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(val))
}

func TestCachedBackend_FailedSetEvicts(t *testing.T) {
	inner := testutil.NewMockBackend()
	cache := testutil.NewMockCache()
	c := NewCachedBackend(inner, cache)

	require.NoError(t, c.Set(context.Background(), "k", []byte("v1")))
	inner.SetErr = errors.New("read-only")
	assert.Error(t, c.Set(context.Background(), "k", []byte("v2")))

	_, ok := cache.Get("mock:k")
	assert.False(t, ok)
	val, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(val))
}

func TestCachedBackend_RemoveEvicts(t *testing.T) {
	inner := testutil.NewMockBackend()
	cache := testutil.NewMockCache()
	c := NewCachedBackend(inner, cache)

	require.NoError(t, c.Set(context.Background(), "k", []byte("v")))
	require.NoError(t, c.Remove(context.Background(), "k"))

	_, ok := cache.Get("mock:k")
	assert.False(t, ok)
	_, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
}

// pausingBackend stops after the inner write of Set until released.
type pausingBackend struct {
	*testutil.MockBackend
	written chan struct{}
	release chan struct{}
}

func (p *pausingBackend) Set(ctx context.Context, key string, value []byte) error {
	err := p.MockBackend.Set(ctx, key, value)
	close(p.written)
	<-p.release
	return err
}

func TestCachedBackend_RemoveDuringSetLeavesNoStaleEntry(t *testing.T) {
	inner := &pausingBackend{MockBackend: testutil.NewMockBackend(), written: make(chan struct{}), release: make(chan struct{})}
	cache := testutil.NewMockCache()
	c := NewCachedBackend(inner, cache)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = c.Set(ctx, "auth_tokens", []byte(`{"access_token":"a"}`))
	}()
	<-inner.written
	go func() {
		defer wg.Done()
		_ = c.Remove(ctx, "auth_tokens")
	}()
	time.Sleep(20 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	_, cached := cache.Get("mock:auth_tokens")
	_, stored := inner.Value("auth_tokens")
	assert.False(t, stored)
	assert.False(t, cached, "cache holds a value the backend no longer has")
	_, err := c.Get(ctx, "auth_tokens")
	assert.Error(t, err)
}

package providers

import (
	"kickoff/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
)

type hitCounter struct {
	noopMetrics
	hits   int
	misses int
}

func (h *hitCounter) IncCacheHits()   { h.hits++ }
func (h *hitCounter) IncCacheMisses() { h.misses++ }

type mapCache map[string][]byte

func (m mapCache) Get(key string) ([]byte, bool) {
	v, ok := m[key]
	return v, ok
}
func (m mapCache) Set(key string, value []byte) { m[key] = value }
func (m mapCache) Del(key string)               { delete(m, key) }

func TestMetricsCacheProvider_CountsHitsAndMisses(t *testing.T) {
	inner := mapCache{"user-preferences": []byte(`{"version":1}`)}
	counter := &hitCounter{}
	cache := &MetricsCacheProvider{inner: inner, metrics: counter}

	val, ok := cache.Get("user-preferences")
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"version":1}`), val)

	_, ok = cache.Get("notifications")
	assert.False(t, ok)
	_, _ = cache.Get("auth_tokens")

	assert.Equal(t, 1, counter.hits)
	assert.Equal(t, 2, counter.misses)
}

func TestMetricsCacheProvider_WritesReachInner(t *testing.T) {
	inner := mapCache{}
	cache := &MetricsCacheProvider{inner: inner, metrics: &hitCounter{}}

	cache.Set("notifications", []byte(`[]`))
	assert.Contains(t, inner, "notifications")

	cache.Del("notifications")
	assert.NotContains(t, inner, "notifications")
}

func TestNewInstrumentedCacheProvider(t *testing.T) {
	disabled := &structures.Config{Cache: structures.CacheConfig{Enabled: false, Size: 1, TTL: 300}}
	assert.IsType(t, &noopCache{}, NewInstrumentedCacheProvider(disabled, silentLogger{}, &hitCounter{}))

	enabled := &structures.Config{Cache: structures.CacheConfig{Enabled: true, Size: 1, TTL: 300}}
	assert.IsType(t, &MetricsCacheProvider{}, NewInstrumentedCacheProvider(enabled, silentLogger{}, &hitCounter{}))
}

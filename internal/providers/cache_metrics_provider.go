package providers

import "kickoff/internal/structures"

// MetricsCacheProvider counts hits and misses of the storage read cache.
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *MetricsCacheProvider) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if !ok {
		c.metrics.IncCacheMisses()
		return nil, false
	}
	c.metrics.IncCacheHits()
	return val, true
}

func (c *MetricsCacheProvider) Set(key string, value []byte) { c.inner.Set(key, value) }

func (c *MetricsCacheProvider) Del(key string) { c.inner.Del(key) }

// NewInstrumentedCacheProvider leaves a disabled cache unwrapped, otherwise
// every storage read would show up as a miss.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if _, disabled := inner.(*noopCache); disabled {
		return inner
	}
	return &MetricsCacheProvider{inner: inner, metrics: metrics}
}

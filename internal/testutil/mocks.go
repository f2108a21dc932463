package testutil

import (
	"context"
	"kickoff/internal/models"
	"kickoff/internal/providers"
	"kickoff/internal/storage/interfaces"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level whose format contains substr.
func (m *MockLogger) Count(level, substr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level && strings.Contains(l.Format, substr) {
			n++
		}
	}
	return n
}

// MockBackend implements interfaces.BackendInterface in memory with injectable failures.
type MockBackend struct {
	mu        sync.Mutex
	Data      map[string][]byte
	GetErr    error
	SetErr    error
	RemoveErr error
	SetCalls  int
	Closed    bool
}

func NewMockBackend() *MockBackend {
	return &MockBackend{Data: make(map[string][]byte)}
}

func (m *MockBackend) Name() string { return "mock" }

func (m *MockBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	val, ok := m.Data[key]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockBackend) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	out := make([]byte, len(value))
	copy(out, value)
	m.Data[key] = out
	return nil
}

func (m *MockBackend) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.Data, key)
	return nil
}

func (m *MockBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Value returns the raw stored value for key.
func (m *MockBackend) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return string(val), ok
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu              sync.Mutex
	Requests        map[string]int
	Refreshes       map[string]int
	CacheHits       int
	CacheMisses     int
	StorageFailures map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests:        make(map[string]int),
		Refreshes:       make(map[string]int),
		StorageFailures: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[endpoint]++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncRefreshTotal(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes[outcome]++
}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncStorageFailures(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StorageFailures[op]++
}

func (m *MockMetrics) RefreshCount(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Refreshes[outcome]
}

// MockNotificationSource implements services.NotificationSourceInterface.
type MockNotificationSource struct {
	Items []models.Notification
	Err   error
	Calls int
}

func (m *MockNotificationSource) Fetch(_ context.Context) ([]models.Notification, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Notification, len(m.Items))
	copy(out, m.Items)
	return out, nil
}

package session

import (
	"context"
	"kickoff/internal/models"
	"kickoff/internal/storage"
	"kickoff/internal/structures"
	"kickoff/internal/testutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

func newTestTokenStore() (*TokenStore, *testutil.MockBackend, *testutil.MockLogger) {
	backend := testutil.NewMockBackend()
	logger := &testutil.MockLogger{}
	adapter := storage.NewAdapter(backend, logger, testutil.NewMockMetrics())
	return NewTokenStore(adapter, logger), backend, logger
}

func TestTokenStore_EmptyReturnsNil(t *testing.T) {
	s, _, _ := newTestTokenStore()
	assert.Nil(t, s.Get(context.Background()))
}

func TestTokenStore_LastSetWins(t *testing.T) {
	s, _, _ := newTestTokenStore()
	ctx := context.Background()

	pairs := []models.TokenPair{
		{AccessToken: "a1", RefreshToken: "r1", ExpiresIn: 3600},
		{AccessToken: "a2", RefreshToken: "r2", ExpiresIn: 1800},
		{AccessToken: "a3", RefreshToken: "r3"},
	}
	for _, p := range pairs {
		s.Set(ctx, p)
		got := s.Get(ctx)
		require.NotNil(t, got)
		assert.Equal(t, p, *got)
	}

	s.Clear(ctx)
	assert.Nil(t, s.Get(ctx))

	s.Set(ctx, pairs[0])
	assert.Equal(t, pairs[0], *s.Get(ctx))
}

func TestTokenStore_PersistsUnderFixedKey(t *testing.T) {
	s, backend, _ := newTestTokenStore()
	s.Set(context.Background(), models.TokenPair{AccessToken: "a", RefreshToken: "r", ExpiresIn: 60})

	raw, ok := backend.Value(TokensKey)
	require.True(t, ok)
	assert.JSONEq(t, `{"access_token":"a","refresh_token":"r","expires_in":60}`, raw)
}

func TestTokenStore_CorruptValueIsMiss(t *testing.T) {
	s, backend, logger := newTestTokenStore()
	backend.Data[TokensKey] = []byte("{not json")

	assert.Nil(t, s.Get(context.Background()))
	assert.Equal(t, 1, logger.Count("warn", "unreadable"))
}

func TestNewTokenStoreProvider_SharesStorageByDefault(t *testing.T) {
	conf := &structures.Config{Storage: structures.StorageConfig{Backend: storage.BackendFile}}
	backend := testutil.NewMockBackend()
	shared := storage.NewAdapter(backend, &testutil.MockLogger{}, testutil.NewMockMetrics())

	s := NewTokenStoreProvider(conf, shared, &testutil.MockLogger{}, &testutil.MockCompressor{}, testutil.NewMockCache(), testutil.NewMockMetrics())
	s.Set(context.Background(), models.TokenPair{AccessToken: "a"})

	_, ok := backend.Value(TokensKey)
	assert.True(t, ok)
}

func TestNewTokenStoreProvider_DedicatedKeyring(t *testing.T) {
	conf := &structures.Config{
		Storage: structures.StorageConfig{Backend: storage.BackendSqlite, SqlitePath: filepath.Join(t.TempDir(), "k.db"), Service: "kickoff-session-test"},
		Session: structures.SessionConfig{Backend: storage.BackendKeyring},
	}
	backend := testutil.NewMockBackend()
	shared := storage.NewAdapter(backend, &testutil.MockLogger{}, testutil.NewMockMetrics())

	s := NewTokenStoreProvider(conf, shared, &testutil.MockLogger{}, &testutil.MockCompressor{}, testutil.NewMockCache(), testutil.NewMockMetrics())
	ctx := context.Background()
	s.Set(ctx, models.TokenPair{AccessToken: "secure", RefreshToken: "r"})

	_, ok := backend.Value(TokensKey)
	assert.False(t, ok, "token pair must not land in the shared storage")
	got := s.Get(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "secure", got.AccessToken)

	val, err := keyring.Get("kickoff-session-test", TokensKey)
	require.NoError(t, err)
	assert.Contains(t, val, "secure")
}

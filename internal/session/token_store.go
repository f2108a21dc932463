package session

import (
	"context"
	json "github.com/goccy/go-json"
	"kickoff/internal/models"
	"kickoff/internal/providers"
	"kickoff/internal/storage"
	"kickoff/internal/storage/interfaces"
	"kickoff/internal/structures"
)

const TokensKey = "auth_tokens"

type TokenStoreInterface interface {
	Get(ctx context.Context) *models.TokenPair
	Set(ctx context.Context, pair models.TokenPair)
	Clear(ctx context.Context)
	Close() error
}

// TokenStore persists the single access/refresh pair. Writes are synchronous:
// once Set returns, the next Get observes the new pair.
type TokenStore struct {
	storage interfaces.StorageInterface
	logger  providers.Logger

	// dedicated is set when the pair lives in a storage of its own
	dedicated *storage.Adapter
}

func NewTokenStore(storage interfaces.StorageInterface, logger providers.Logger) *TokenStore {
	return &TokenStore{storage: storage, logger: logger}
}

// NewTokenStoreProvider uses the shared storage unless session.backend names
// a different backend, in which case the pair gets a storage of its own.
func NewTokenStoreProvider(conf *structures.Config, shared *storage.Adapter, logger providers.Logger, compressor interfaces.CompressorInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) TokenStoreInterface {
	backend := conf.Session.Backend
	if backend == "" || backend == conf.Storage.Backend {
		return NewTokenStore(shared, logger)
	}
	dedicated := storage.NewAdapter(
		storage.NewCachedBackend(storage.NewBackend(backend, conf, compressor, logger), cache),
		logger,
		metrics,
	)
	store := NewTokenStore(dedicated, logger)
	store.dedicated = dedicated
	return store
}

func (s *TokenStore) Get(ctx context.Context) *models.TokenPair {
	raw, ok := s.storage.GetItem(ctx, TokensKey)
	if !ok {
		return nil
	}
	var pair models.TokenPair
	if err := json.Unmarshal([]byte(raw), &pair); err != nil {
		s.logger.Warnf(providers.TypeSession, "Stored token pair is unreadable: %s", err)
		return nil
	}
	return &pair
}

func (s *TokenStore) Set(ctx context.Context, pair models.TokenPair) {
	data, err := json.Marshal(pair)
	if err != nil {
		s.logger.Errorf(providers.TypeSession, "Unable to encode token pair: %s", err)
		return
	}
	s.storage.SetItem(ctx, TokensKey, string(data))
}

func (s *TokenStore) Clear(ctx context.Context) {
	s.storage.RemoveItem(ctx, TokensKey)
}

func (s *TokenStore) Close() error {
	if s.dedicated == nil {
		return nil
	}
	return s.dedicated.Close()
}

//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"kickoff/internal"
	"kickoff/internal/api"
	"kickoff/internal/controllers"
	"kickoff/internal/providers"
	"kickoff/internal/services"
	"kickoff/internal/session"
	"kickoff/internal/storage"
	"kickoff/internal/storage/interfaces"
	"kickoff/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewCompressor,
		storage.NewStorageProvider,
		wire.Bind(new(interfaces.StorageInterface), new(*storage.Adapter)),
		wire.Bind(new(controllers.BackendReporter), new(*storage.Adapter)),
		session.NewTokenStoreProvider,
		api.NewClient,

		services.NewPersister,
		wire.Bind(new(services.PersisterInterface), new(*services.Persister)),
		services.NewSeedNotificationSource,
		wire.Bind(new(services.NotificationSourceInterface), new(*services.StaticNotificationSource)),
		services.NewPreferencesService,
		wire.Bind(new(services.PreferencesServiceInterface), new(*services.PreferencesService)),
		services.NewNotificationService,
		wire.Bind(new(services.NotificationServiceInterface), new(*services.NotificationService)),
		services.NewInsightsService,
		wire.Bind(new(services.InsightsServiceInterface), new(*services.InsightsService)),

		controllers.NewHealthController,
		controllers.NewStateController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

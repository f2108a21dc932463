package internal

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"kickoff/internal/api"
	"kickoff/internal/providers"
	"kickoff/internal/services"
	"kickoff/internal/session"
	"kickoff/internal/storage"
	"kickoff/internal/structures"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// App owns every store of the process. It is built once at startup and
// handed to whatever drives it (the CLI, the debug listener, tests).
type App struct {
	Config        *structures.Config
	Logger        providers.Logger
	Storage       *storage.Adapter
	Tokens        session.TokenStoreInterface
	Client        *api.Client
	Persister     *services.Persister
	Preferences   *services.PreferencesService
	Notifications *services.NotificationService
	Insights      *services.InsightsService
	router        providers.RouterProviderInterface
}

func NewApp(conf *structures.Config, logger providers.Logger, store *storage.Adapter, tokens session.TokenStoreInterface, client *api.Client, persister *services.Persister, preferences *services.PreferencesService, notifications *services.NotificationService, insights *services.InsightsService, router providers.RouterProviderInterface) *App {
	logger.Infof(providers.TypeApp, "Starting %s with %s storage", conf.AppName, store.Backend())

	ctx := context.Background()
	preferences.Rehydrate(ctx)
	insights.Rehydrate(ctx)
	notifications.Initialize(ctx)

	return &App{
		Config:        conf,
		Logger:        logger,
		Storage:       store,
		Tokens:        tokens,
		Client:        client,
		Persister:     persister,
		Preferences:   preferences,
		Notifications: notifications,
		Insights:      insights,
		router:        router,
	}
}

func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, route := range a.router.GetRoutes() {
		mux.Handle(route.Url, route.Handler)
	}
	if a.Config.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	return mux
}

// Serve runs the debug listener until ctx is done or the process is signalled.
func (a *App) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:         a.Config.Metrics.Addr,
		Handler:      a.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.Logger.Infof(providers.TypeApp, "Debug listener on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		a.Logger.Infof(providers.TypeApp, "Shutdown signal received")
	case <-ctx.Done():
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// SyncFromServer pulls the current user and applies it to the preferences.
func (a *App) SyncFromServer(ctx context.Context) error {
	user, err := a.Client.Me(ctx)
	if err != nil {
		return err
	}
	a.Preferences.SyncFromUser(*user)
	return nil
}

// PushPreferences sends the local profiles and themes to the server.
func (a *App) PushPreferences(ctx context.Context) error {
	snap := a.Preferences.Snapshot()
	if _, err := a.Client.UpdateProfiles(ctx, snap.SelectedProfiles, snap.ActiveProfileIndex); err != nil {
		return err
	}
	user, err := a.Client.UpdateThemes(ctx, snap.SelectedThemes)
	if err != nil {
		return err
	}
	a.Preferences.SyncFromUser(*user)
	return nil
}

// Logout drops the session and the preferences tied to it.
func (a *App) Logout(ctx context.Context) {
	a.Client.Logout(ctx)
	a.Preferences.ResetPreferences()
}

// Close flushes pending writes and releases storage.
func (a *App) Close() error {
	a.Persister.Stop()
	errs := []error{a.Tokens.Close(), a.Storage.Close()}
	a.Logger.Infof(providers.TypeApp, "gracefully stopped")
	a.Logger.Close()
	return errors.Join(errs...)
}

package internal

import (
	"context"
	"io"
	"kickoff/internal/api"
	"kickoff/internal/controllers"
	"kickoff/internal/models"
	"kickoff/internal/services"
	"kickoff/internal/session"
	"kickoff/internal/storage"
	"kickoff/internal/structures"
	"kickoff/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, backend *testutil.MockBackend, baseURL string, metrics bool) *App {
	t.Helper()
	logger := &testutil.MockLogger{}
	mm := testutil.NewMockMetrics()
	conf := &structures.Config{
		AppName: "Kickoff",
		Api:     structures.ApiConfig{BaseURL: baseURL},
		Metrics: structures.MetricsConfig{Enabled: metrics},
	}
	adapter := storage.NewAdapter(backend, logger, mm)
	tokens := session.NewTokenStore(adapter, logger)
	client := api.NewClient(conf, tokens, logger, mm)
	persister := services.NewPersister(adapter, logger)
	prefs := services.NewPreferencesService(conf, persister, logger)
	notifs := services.NewNotificationService(conf, services.NewSeedNotificationSource(), persister, logger)
	insights := services.NewInsightsService(conf, persister, logger)
	router := InitRoutes(
		controllers.NewHealthController(adapter, tokens, prefs, notifs),
		controllers.NewStateController(logger, prefs, notifs, insights),
	)
	return NewApp(conf, logger, adapter, tokens, client, persister, prefs, notifs, insights, router)
}

func TestNewApp_RehydratesStores(t *testing.T) {
	backend := testutil.NewMockBackend()
	first := newTestApp(t, backend, "http://localhost", false)
	first.Preferences.SetSelectedThemes([]string{"match"})
	n := first.Notifications.AddNotification(models.NotificationPayload{Title: "hello"})
	first.Insights.RecordPublication(models.PublicationRecord{DocumentID: "d1", ProfileID: "p1"})
	require.NoError(t, first.Close())
	assert.True(t, backend.Closed)

	second := newTestApp(t, backend, "http://localhost", false)
	defer second.Close()

	assert.Equal(t, []string{"match"}, second.Preferences.SelectedThemes())
	require.Len(t, second.Notifications.List(), 2)
	assert.Equal(t, n.ID, second.Notifications.List()[0].ID)
	assert.Equal(t, 1, second.Insights.GetTotalStats("").TotalPublications)
}

func TestApp_HandlerServesMetricsWhenEnabled(t *testing.T) {
	withMetrics := newTestApp(t, testutil.NewMockBackend(), "http://localhost", true)
	defer withMetrics.Close()
	rr := httptest.NewRecorder()
	withMetrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	without := newTestApp(t, testutil.NewMockBackend(), "http://localhost", false)
	defer without.Close()
	rr = httptest.NewRecorder()
	without.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestApp_SyncAndPush(t *testing.T) {
	user := models.User{
		ID:                     "u1",
		Profiles:               []models.UserProfile{{Type: models.ProfileClub, ID: "c1", Name: "FC"}},
		SelectedThemes:         []string{"jeunes"},
		HasCompletedOnboarding: true,
	}
	var pushed models.UpdateProfilesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "PUT /users/me/profiles":
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &pushed)
		}
		_ = json.NewEncoder(w).Encode(user)
	}))
	defer srv.Close()

	app := newTestApp(t, testutil.NewMockBackend(), srv.URL, false)
	defer app.Close()
	ctx := context.Background()

	require.NoError(t, app.SyncFromServer(ctx))
	assert.Equal(t, user.Profiles, app.Preferences.Profiles())
	assert.True(t, app.Preferences.HasCompletedOnboarding())

	app.Preferences.AddProfile(models.UserProfile{Type: models.ProfileSponsor, ID: "s1", Name: "Sponsor"})
	require.NoError(t, app.PushPreferences(ctx))
	assert.Len(t, pushed.Profiles, 2)
}

func TestApp_LogoutResetsSession(t *testing.T) {
	app := newTestApp(t, testutil.NewMockBackend(), "http://localhost", false)
	defer app.Close()
	ctx := context.Background()
	app.Tokens.Set(ctx, models.TokenPair{AccessToken: "a", RefreshToken: "r"})
	app.Preferences.CompleteOnboarding()

	app.Logout(ctx)

	assert.Nil(t, app.Tokens.Get(ctx))
	assert.False(t, app.Preferences.HasCompletedOnboarding())
}

func TestApp_ServeStopsWithContext(t *testing.T) {
	app := newTestApp(t, testutil.NewMockBackend(), "http://localhost", false)
	defer app.Close()
	app.Config.Metrics.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx) }()
	cancel()

	assert.NoError(t, <-done)
}

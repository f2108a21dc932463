package controllers

import (
	"kickoff/internal/models"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) state() *StateController {
	return NewStateController(f.logger, f.preferences, f.notifications, f.insights)
}

func TestGetPreferences_ReturnsSnapshot(t *testing.T) {
	f := newFixture(t, "")
	f.preferences.SetSelectedThemes([]string{"match"})

	rr := httptest.NewRecorder()
	f.state().GetPreferences(rr, httptest.NewRequest(http.MethodGet, "/state/preferences", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp models.PreferencesState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"match"}, resp.SelectedThemes)
	assert.Len(t, resp.SelectedProfiles, 4)
}

func TestGetNotifications_ReturnsItemsAndCount(t *testing.T) {
	f := newFixture(t, "")
	n := f.notifications.AddNotification(models.NotificationPayload{Title: "one"})
	f.notifications.AddNotification(models.NotificationPayload{Title: "two"})
	f.notifications.MarkAsRead(n.ID)

	rr := httptest.NewRecorder()
	f.state().GetNotifications(rr, httptest.NewRequest(http.MethodGet, "/state/notifications", nil))

	var resp notificationsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 1, resp.UnreadCount)
}

func TestGetInsights_FiltersByProfile(t *testing.T) {
	f := newFixture(t, "")
	a := f.insights.RecordPublication(models.PublicationRecord{DocumentID: "d1", ProfileID: "p1"})
	f.insights.RecordPublication(models.PublicationRecord{DocumentID: "d2", ProfileID: "p2"})
	f.insights.UpdatePublicationInsights(a.ID, models.PublicationInsights{Reach: 10, Engagement: 0.5})

	rr := httptest.NewRecorder()
	f.state().GetInsights(rr, httptest.NewRequest(http.MethodGet, "/state/insights?profile=p1", nil))

	var resp insightsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "p1", resp.Profile)
	assert.Equal(t, 1, resp.Stats.TotalPublications)
	assert.Equal(t, 10, resp.Stats.TotalReach)
	assert.Len(t, resp.Publications, 1)

	rr = httptest.NewRecorder()
	f.state().GetInsights(rr, httptest.NewRequest(http.MethodGet, "/state/insights", nil))
	resp = insightsResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Stats.TotalPublications)
	assert.Empty(t, resp.Publications)
}

package controllers

import (
	json "github.com/goccy/go-json"
	"kickoff/internal/models"
	"kickoff/internal/providers"
	"kickoff/internal/services"
	"net/http"
)

// StateController exposes read-only views of the local stores on the debug listener.
type StateController struct {
	logger        providers.Logger
	preferences   services.PreferencesServiceInterface
	notifications services.NotificationServiceInterface
	insights      services.InsightsServiceInterface
}

type notificationsResponse struct {
	Items       []models.Notification `json:"items"`
	UnreadCount int                   `json:"unread_count"`
}

type insightsResponse struct {
	Profile      string                     `json:"profile,omitempty"`
	Stats        models.TotalStats          `json:"stats"`
	Publications []models.PublicationRecord `json:"publications,omitempty"`
}

func NewStateController(logger providers.Logger, preferences services.PreferencesServiceInterface, notifications services.NotificationServiceInterface, insights services.InsightsServiceInterface) *StateController {
	return &StateController{
		logger:        logger,
		preferences:   preferences,
		notifications: notifications,
		insights:      insights,
	}
}

func (sc *StateController) writeJSON(w http.ResponseWriter, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		sc.logger.Errorf(providers.TypeApp, "Unable to encode response: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (sc *StateController) GetPreferences(w http.ResponseWriter, r *http.Request) {
	sc.writeJSON(w, sc.preferences.Snapshot())
}

func (sc *StateController) GetNotifications(w http.ResponseWriter, r *http.Request) {
	sc.writeJSON(w, notificationsResponse{
		Items:       sc.notifications.List(),
		UnreadCount: sc.notifications.UnreadCount(),
	})
}

// GetInsights reports totals, narrowed to one profile with ?profile=.
func (sc *StateController) GetInsights(w http.ResponseWriter, r *http.Request) {
	profile := r.URL.Query().Get("profile")
	resp := insightsResponse{
		Profile: profile,
		Stats:   sc.insights.GetTotalStats(profile),
	}
	if profile != "" {
		resp.Publications = sc.insights.GetPublicationsByProfile(profile)
	}
	sc.writeJSON(w, resp)
}

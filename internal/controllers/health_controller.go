package controllers

import (
	"fmt"
	json "github.com/goccy/go-json"
	"kickoff/internal/services"
	"kickoff/internal/session"
	"net/http"
	"strings"
	"time"
)

// BackendReporter names the storage backend in use.
type BackendReporter interface {
	Backend() string
}

type HealthController struct {
	storage       BackendReporter
	tokens        session.TokenStoreInterface
	preferences   services.PreferencesServiceInterface
	notifications services.NotificationServiceInterface
	startTime     time.Time
}

type healthResponse struct {
	Status              string  `json:"status"`
	Uptime              string  `json:"uptime"`
	UptimeSeconds       float64 `json:"uptime_seconds"`
	StorageBackend      string  `json:"storage_backend"`
	Authenticated       bool    `json:"authenticated"`
	Profiles            int     `json:"profiles"`
	UnreadNotifications int     `json:"unread_notifications"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	backend := hc.storage.Backend()
	status := "ok"
	if strings.HasSuffix(backend, "(unavailable)") {
		status = "degraded"
	}
	resp := healthResponse{
		Status:              status,
		Uptime:              formatDuration(uptime),
		UptimeSeconds:       uptime.Seconds(),
		StorageBackend:      backend,
		Authenticated:       hc.tokens.Get(r.Context()) != nil,
		Profiles:            len(hc.preferences.Profiles()),
		UnreadNotifications: hc.notifications.UnreadCount(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(storage BackendReporter, tokens session.TokenStoreInterface, preferences services.PreferencesServiceInterface, notifications services.NotificationServiceInterface) *HealthController {
	return &HealthController{
		storage:       storage,
		tokens:        tokens,
		preferences:   preferences,
		notifications: notifications,
		startTime:     time.Now(),
	}
}

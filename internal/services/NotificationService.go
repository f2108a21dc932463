package services

import (
	"context"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"kickoff/internal/models"
	"kickoff/internal/providers"
	"kickoff/internal/structures"
	"sync"
	"time"
)

const NotificationsKey = "notifications"

type NotificationSourceInterface interface {
	Fetch(ctx context.Context) ([]models.Notification, error)
}

type NotificationServiceInterface interface {
	Initialize(ctx context.Context)
	AddNotification(payload models.NotificationPayload) models.Notification
	MarkAsRead(id string)
	MarkAllAsRead()
	Remove(id string)
	Clear()
	List() []models.Notification
	UnreadCount() int
}

// StaticNotificationSource serves a fixed list, used to seed a fresh install.
type StaticNotificationSource struct {
	Items []models.Notification
}

func (s *StaticNotificationSource) Fetch(_ context.Context) ([]models.Notification, error) {
	return append([]models.Notification{}, s.Items...), nil
}

func NewSeedNotificationSource() *StaticNotificationSource {
	return &StaticNotificationSource{Items: []models.Notification{
		{
			ID:        "welcome",
			State:     models.NotificationUnread,
			Type:      "info",
			Title:     "Bienvenue sur Kickoff",
			Message:   "Configurez vos profils pour commencer à publier.",
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
}

// NotificationService keeps notifications newest first. The unread count is
// derived from the list on every change.
type NotificationService struct {
	mu        sync.RWMutex
	items     []models.Notification
	unread    int
	source    NotificationSourceInterface
	persister PersisterInterface
	logger    providers.Logger
	noop      noopReporter
	now       func() time.Time
}

func NewNotificationService(conf *structures.Config, source NotificationSourceInterface, persister PersisterInterface, logger providers.Logger) *NotificationService {
	return &NotificationService{
		items:     []models.Notification{},
		source:    source,
		persister: persister,
		logger:    logger,
		noop:      noopReporter{logger: logger, strict: conf.Debug},
		now:       time.Now,
	}
}

// Initialize loads the persisted list, or seeds from the source when nothing is stored.
func (s *NotificationService) Initialize(ctx context.Context) {
	items, ok := s.load(ctx)
	seeded := false
	if !ok {
		fetched, err := s.source.Fetch(ctx)
		if err != nil {
			// nothing is stored so the next start fetches again
			s.logger.Warnf(providers.TypeStore, "Unable to fetch initial notifications: %s", err)
		}
		items = fetched
		seeded = err == nil
	}

	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if items[i].State != models.NotificationRead {
			items[i].State = models.NotificationUnread
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]models.Notification{}, items...)
	s.recount()
	if seeded {
		s.persist()
	}
}

func (s *NotificationService) load(ctx context.Context) ([]models.Notification, bool) {
	raw, ok := s.persister.Load(ctx, NotificationsKey)
	if !ok {
		return nil, false
	}
	var items []models.Notification
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warnf(providers.TypeStore, "Stored notifications are unreadable: %s", err)
		return nil, false
	}
	return items, true
}

// recount and persist must be called with s.mu held.
func (s *NotificationService) recount() {
	n := 0
	for _, item := range s.items {
		if item.State == models.NotificationUnread {
			n++
		}
	}
	s.unread = n
}

func (s *NotificationService) persist() {
	s.persister.Save(NotificationsKey, append([]models.Notification{}, s.items...))
}

func (s *NotificationService) AddNotification(payload models.NotificationPayload) models.Notification {
	n := models.Notification{
		ID:        uuid.NewString(),
		State:     models.NotificationUnread,
		Type:      payload.Type,
		Title:     payload.Title,
		Message:   payload.Message,
		CreatedAt: s.now().UTC(),
		Data:      payload.Data,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]models.Notification{n}, s.items...)
	s.recount()
	s.persist()
	return n
}

func (s *NotificationService) MarkAsRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if s.items[i].State == models.NotificationRead {
			return
		}
		s.items[i].State = models.NotificationRead
		s.recount()
		s.persist()
		return
	}
	s.noop.report("MarkAsRead: unknown notification %s", id)
}

func (s *NotificationService) MarkAllAsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unread == 0 {
		return
	}
	for i := range s.items {
		s.items[i].State = models.NotificationRead
	}
	s.recount()
	s.persist()
}

func (s *NotificationService) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			s.recount()
			s.persist()
			return
		}
	}
	s.noop.report("Remove: unknown notification %s", id)
}

// Clear empties the list. The empty list is persisted so a later Initialize does not reseed.
func (s *NotificationService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []models.Notification{}
	s.recount()
	s.persist()
}

func (s *NotificationService) List() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Notification{}, s.items...)
}

func (s *NotificationService) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

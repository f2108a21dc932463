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

const PublicationHistoryKey = "publication-history"

type InsightsServiceInterface interface {
	Rehydrate(ctx context.Context)
	RecordPublication(record models.PublicationRecord) models.PublicationRecord
	UpdatePublicationInsights(id string, insights models.PublicationInsights)
	GetTotalStats(profileID string) models.TotalStats
	GetDocumentHistory(documentID string) (models.DocumentHistory, bool)
	GetPublicationsByProfile(profileID string) []models.PublicationRecord
	ClearHistory()
}

type InsightsService struct {
	mu           sync.RWMutex
	publications []models.PublicationRecord
	histories    map[string]*models.DocumentHistory
	persister    PersisterInterface
	logger       providers.Logger
	noop         noopReporter
	now          func() time.Time
}

func NewInsightsService(conf *structures.Config, persister PersisterInterface, logger providers.Logger) *InsightsService {
	return &InsightsService{
		publications: []models.PublicationRecord{},
		histories:    make(map[string]*models.DocumentHistory),
		persister:    persister,
		logger:       logger,
		noop:         noopReporter{logger: logger, strict: conf.Debug},
		now:          time.Now,
	}
}

func (s *InsightsService) Rehydrate(ctx context.Context) {
	raw, ok := s.persister.Load(ctx, PublicationHistoryKey)
	if !ok {
		return
	}
	var state models.PublicationHistoryState
	if err := json.Unmarshal(raw, &state); err != nil {
		s.logger.Warnf(providers.TypeStore, "Stored publication history is unreadable: %s", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.publications = append([]models.PublicationRecord{}, state.Publications...)
	s.histories = make(map[string]*models.DocumentHistory, len(state.DocumentHistories))
	for id, h := range state.DocumentHistories {
		h := h.Clone()
		recompute(&h)
		s.histories[id] = &h
	}
}

// persist must be called with s.mu held.
func (s *InsightsService) persist() {
	state := models.PublicationHistoryState{
		Publications:      make([]models.PublicationRecord, len(s.publications)),
		DocumentHistories: make(map[string]models.DocumentHistory, len(s.histories)),
	}
	for i, p := range s.publications {
		state.Publications[i] = p.Clone()
	}
	for id, h := range s.histories {
		state.DocumentHistories[id] = h.Clone()
	}
	s.persister.Save(PublicationHistoryKey, state)
}

// recompute rebuilds the document aggregates from scratch: reach is summed
// and engagement averaged over the publications that carry insights.
func recompute(h *models.DocumentHistory) {
	reach, engagement, n := 0, 0.0, 0
	for _, p := range h.Publications {
		if p.Insights == nil {
			continue
		}
		reach += p.Insights.Reach
		engagement += p.Insights.Engagement
		n++
	}
	h.TotalReach = reach
	h.TotalEngagement = 0
	if n > 0 {
		h.TotalEngagement = engagement / float64(n)
	}
}

// RecordPublication stores record under a fresh id and attaches it to its document history.
func (s *InsightsService) RecordPublication(record models.PublicationRecord) models.PublicationRecord {
	record = record.Clone()
	record.ID = uuid.NewString()
	if record.PublishedAt.IsZero() {
		record.PublishedAt = s.now().UTC()
	}
	if record.Status == "" {
		record.Status = models.PublicationPublished
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.publications = append(s.publications, record)

	h, ok := s.histories[record.DocumentID]
	if !ok {
		h = &models.DocumentHistory{
			DocumentID:       record.DocumentID,
			Publications:     []models.PublicationRecord{},
			FirstPublishedAt: record.PublishedAt,
			LastPublishedAt:  record.PublishedAt,
		}
		s.histories[record.DocumentID] = h
	}
	h.Publications = append(h.Publications, record.Clone())
	if record.PublishedAt.Before(h.FirstPublishedAt) {
		h.FirstPublishedAt = record.PublishedAt
	}
	if record.PublishedAt.After(h.LastPublishedAt) {
		h.LastPublishedAt = record.PublishedAt
	}
	recompute(h)
	s.persist()
	return record.Clone()
}

func (s *InsightsService) UpdatePublicationInsights(id string, insights models.PublicationInsights) {
	if insights.FetchedAt.IsZero() {
		insights.FetchedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.publications {
		if s.publications[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.noop.report("UpdatePublicationInsights: unknown publication %s", id)
		return
	}

	flat := insights
	s.publications[idx].Insights = &flat
	if h, ok := s.histories[s.publications[idx].DocumentID]; ok {
		for i := range h.Publications {
			if h.Publications[i].ID == id {
				attached := insights
				h.Publications[i].Insights = &attached
			}
		}
		recompute(h)
	}
	s.persist()
}

// GetTotalStats aggregates over every publication, or those of profileID when set.
// Sums and the engagement mean only count publications with insights.
func (s *InsightsService) GetTotalStats(profileID string) models.TotalStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats models.TotalStats
	engagement, n := 0.0, 0
	for _, p := range s.publications {
		if profileID != "" && p.ProfileID != profileID {
			continue
		}
		stats.TotalPublications++
		if p.Insights == nil {
			continue
		}
		stats.TotalReach += p.Insights.Reach
		stats.TotalImpressions += p.Insights.Impressions
		stats.TotalLikes += p.Insights.Likes
		stats.TotalComments += p.Insights.Comments
		stats.TotalShares += p.Insights.Shares
		engagement += p.Insights.Engagement
		n++
	}
	if n > 0 {
		stats.AvgEngagement = engagement / float64(n)
	}
	return stats
}

func (s *InsightsService) GetDocumentHistory(documentID string) (models.DocumentHistory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.histories[documentID]
	if !ok {
		return models.DocumentHistory{}, false
	}
	return h.Clone(), true
}

func (s *InsightsService) GetPublicationsByProfile(profileID string) []models.PublicationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.PublicationRecord{}
	for _, p := range s.publications {
		if p.ProfileID == profileID {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (s *InsightsService) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publications = []models.PublicationRecord{}
	s.histories = make(map[string]*models.DocumentHistory)
	s.persister.Remove(PublicationHistoryKey)
}

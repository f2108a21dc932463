package models

import "time"

type PublicationStatus string

const (
	PublicationPublished PublicationStatus = "published"
	PublicationScheduled PublicationStatus = "scheduled"
	PublicationFailed    PublicationStatus = "failed"
)

type PublicationInsights struct {
	Reach       int       `json:"reach"`
	Impressions int       `json:"impressions"`
	Engagement  float64   `json:"engagement"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Shares      int       `json:"shares"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

type PublicationRecord struct {
	ID             string               `json:"id"`
	DocumentID     string               `json:"documentId"`
	ProfileID      string               `json:"profileId"`
	Platform       SocialPlatform       `json:"platform"`
	SupportType    string               `json:"supportType"`
	PublishedAt    time.Time            `json:"publishedAt"`
	Status         PublicationStatus    `json:"status"`
	ExternalPostID string               `json:"externalPostId,omitempty"`
	Insights       *PublicationInsights `json:"insights,omitempty"`
}

func (p PublicationRecord) Clone() PublicationRecord {
	if p.Insights != nil {
		in := *p.Insights
		p.Insights = &in
	}
	return p
}

type DocumentHistory struct {
	DocumentID       string              `json:"documentId"`
	Publications     []PublicationRecord `json:"publications"`
	TotalReach       int                 `json:"totalReach"`
	TotalEngagement  float64             `json:"totalEngagement"`
	FirstPublishedAt time.Time           `json:"firstPublishedAt"`
	LastPublishedAt  time.Time           `json:"lastPublishedAt"`
}

func (d DocumentHistory) Clone() DocumentHistory {
	pubs := make([]PublicationRecord, len(d.Publications))
	for i, p := range d.Publications {
		pubs[i] = p.Clone()
	}
	d.Publications = pubs
	return d
}

type TotalStats struct {
	TotalPublications int     `json:"totalPublications"`
	TotalReach        int     `json:"totalReach"`
	TotalImpressions  int     `json:"totalImpressions"`
	TotalLikes        int     `json:"totalLikes"`
	TotalComments     int     `json:"totalComments"`
	TotalShares       int     `json:"totalShares"`
	AvgEngagement     float64 `json:"avgEngagement"`
}

// PublicationHistoryState is the persisted document of the insights store.
type PublicationHistoryState struct {
	Publications      []PublicationRecord        `json:"publications"`
	DocumentHistories map[string]DocumentHistory `json:"documentHistories"`
}

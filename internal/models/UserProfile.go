package models

import "time"

type ProfileType string

const (
	ProfileEquipe   ProfileType = "équipe"
	ProfileClub     ProfileType = "club"
	ProfileDistrict ProfileType = "district"
	ProfileLigue    ProfileType = "ligue"
	ProfileSponsor  ProfileType = "sponsor"
)

func (p ProfileType) Valid() bool {
	switch p {
	case ProfileEquipe, ProfileClub, ProfileDistrict, ProfileLigue, ProfileSponsor:
		return true
	}
	return false
}

type UserProfile struct {
	Type   ProfileType `json:"type"`
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Logo   string      `json:"logo,omitempty"`
	ClubID string      `json:"clubId,omitempty"`
	Numero string      `json:"numero,omitempty"`
}

type SponsoringPrefs struct {
	AutoSponsoringEnabled bool    `json:"autoSponsoringEnabled"`
	PricePerDoc           float64 `json:"pricePerDoc" validate:"float|min:0"`
	MaxSponsorsPerDoc     int     `json:"maxSponsorsPerDoc" validate:"int|min:0"`
}

// DefaultSponsoringPrefs is what a profile without stored prefs reports.
func DefaultSponsoringPrefs() SponsoringPrefs {
	return SponsoringPrefs{
		AutoSponsoringEnabled: false,
		PricePerDoc:           0,
		MaxSponsorsPerDoc:     1,
	}
}

type SocialPlatform string

const (
	PlatformMeta     SocialPlatform = "meta"
	PlatformLinkedIn SocialPlatform = "linkedin"
)

func (p SocialPlatform) Valid() bool {
	return p == PlatformMeta || p == PlatformLinkedIn
}

type SocialAccount struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	PictureURL string `json:"pictureUrl,omitempty"`
	IsDefault  bool   `json:"isDefault"`
}

type SocialConnection struct {
	Platform    SocialPlatform  `json:"platform"`
	Connected   bool            `json:"connected"`
	ConnectedAt *time.Time      `json:"connectedAt,omitempty"`
	Accounts    []SocialAccount `json:"accounts"`
}

// DefaultAccount returns the account flagged as default, or the first one.
func (c SocialConnection) DefaultAccount() (SocialAccount, bool) {
	for _, a := range c.Accounts {
		if a.IsDefault {
			return a, true
		}
	}
	if len(c.Accounts) > 0 {
		return c.Accounts[0], true
	}
	return SocialAccount{}, false
}

func (c SocialConnection) clone() SocialConnection {
	out := c
	if c.ConnectedAt != nil {
		at := *c.ConnectedAt
		out.ConnectedAt = &at
	}
	out.Accounts = append([]SocialAccount(nil), c.Accounts...)
	return out
}

// CloneConnections deep-copies a connection list so callers cannot alias store state.
func CloneConnections(in []SocialConnection) []SocialConnection {
	if in == nil {
		return nil
	}
	out := make([]SocialConnection, len(in))
	for i, c := range in {
		out[i] = c.clone()
	}
	return out
}

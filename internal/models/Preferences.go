package models

// PreferencesState is the persisted part of the preferences store.
type PreferencesState struct {
	SelectedProfiles         []UserProfile                 `json:"selectedProfiles"`
	ActiveProfileIndex       int                           `json:"activeProfileIndex"`
	SelectedThemes           []string                      `json:"selectedThemes"`
	HasCompletedOnboarding   bool                          `json:"hasCompletedOnboarding"`
	ProfileSponsoringPrefs   map[string]SponsoringPrefs    `json:"profileSponsoringPrefs"`
	ProfileSocialConnections map[string][]SocialConnection `json:"profileSocialConnections"`
}

// PreferencesEnvelope wraps the state with the schema version it was written with.
type PreferencesEnvelope struct {
	State   PreferencesState `json:"state"`
	Version int              `json:"version"`
}

func (s PreferencesState) Clone() PreferencesState {
	out := PreferencesState{
		SelectedProfiles:         append([]UserProfile{}, s.SelectedProfiles...),
		ActiveProfileIndex:       s.ActiveProfileIndex,
		SelectedThemes:           append([]string{}, s.SelectedThemes...),
		HasCompletedOnboarding:   s.HasCompletedOnboarding,
		ProfileSponsoringPrefs:   make(map[string]SponsoringPrefs, len(s.ProfileSponsoringPrefs)),
		ProfileSocialConnections: make(map[string][]SocialConnection, len(s.ProfileSocialConnections)),
	}
	for id, prefs := range s.ProfileSponsoringPrefs {
		out.ProfileSponsoringPrefs[id] = prefs
	}
	for id, conns := range s.ProfileSocialConnections {
		out.ProfileSocialConnections[id] = CloneConnections(conns)
	}
	return out
}

func (s PreferencesState) ProfileIndex(id string) int {
	for i, p := range s.SelectedProfiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}

package services

import (
	"context"
	"fmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gookit/validate"
	"github.com/tidwall/gjson"
	"kickoff/internal/models"
	"kickoff/internal/providers"
	"kickoff/internal/structures"
	"sync"
)

const (
	PreferencesKey     = "user-preferences"
	PreferencesVersion = 1
	MaxProfiles        = 30
)

type PreferencesServiceInterface interface {
	Rehydrate(ctx context.Context)
	Snapshot() models.PreferencesState

	Profiles() []models.UserProfile
	AddProfile(profile models.UserProfile) bool
	RemoveProfile(id string)
	UpdateProfile(id string, profile models.UserProfile)
	SetSelectedProfiles(profiles []models.UserProfile)
	SetActiveProfileIndex(index int)
	ActiveProfile() (models.UserProfile, bool)

	SelectedThemes() []string
	SetSelectedThemes(themes []string)
	HasCompletedOnboarding() bool
	CompleteOnboarding()

	SetProfileSponsoringPrefs(profileID string, prefs models.SponsoringPrefs) error
	GetProfileSponsoringPrefs(profileID string) models.SponsoringPrefs

	SetSocialConnection(profileID string, conn models.SocialConnection)
	RemoveSocialConnection(profileID string, platform models.SocialPlatform)
	GetSocialConnections(profileID string) []models.SocialConnection

	SyncFromUser(user models.User)
	ResetPreferences()
}

// BaseProfiles is the placeholder set used whenever the profile list would be empty.
func BaseProfiles() []models.UserProfile {
	return []models.UserProfile{
		{Type: models.ProfileEquipe, ID: "base-equipe", Name: "Mon équipe"},
		{Type: models.ProfileClub, ID: "base-club", Name: "Mon club"},
		{Type: models.ProfileDistrict, ID: "base-district", Name: "Mon district"},
		{Type: models.ProfileLigue, ID: "base-ligue", Name: "Ma ligue"},
	}
}

func defaultPreferences() models.PreferencesState {
	return models.PreferencesState{
		SelectedProfiles:         BaseProfiles(),
		SelectedThemes:           []string{},
		ProfileSponsoringPrefs:   map[string]models.SponsoringPrefs{},
		ProfileSocialConnections: map[string][]models.SocialConnection{},
	}
}

type PreferencesService struct {
	mu        sync.RWMutex
	state     models.PreferencesState
	persister PersisterInterface
	logger    providers.Logger
	noop      noopReporter
}

func NewPreferencesService(conf *structures.Config, persister PersisterInterface, logger providers.Logger) *PreferencesService {
	return &PreferencesService{
		state:     defaultPreferences(),
		persister: persister,
		logger:    logger,
		noop:      noopReporter{logger: logger, strict: conf.Debug},
	}
}

// Rehydrate replaces in-memory state with what storage holds. Both the
// versioned envelope and a bare legacy state document are accepted; anything
// missing falls back to defaults.
func (s *PreferencesService) Rehydrate(ctx context.Context) {
	raw, ok := s.persister.Load(ctx, PreferencesKey)
	if !ok {
		return
	}

	doc := raw
	envelope := gjson.GetBytes(raw, "state")
	if envelope.IsObject() {
		doc = []byte(envelope.Raw)
		if v := gjson.GetBytes(raw, "version").Int(); v > PreferencesVersion {
			s.logger.Warnf(providers.TypeStore, "Preferences written by newer version %d, loading what is known", v)
		}
	} else {
		s.logger.Infof(providers.TypeStore, "Migrating unversioned preferences document")
	}

	state := defaultPreferences()
	if err := json.Unmarshal(doc, &state); err != nil {
		s.logger.Warnf(providers.TypeStore, "Stored preferences are unreadable, using defaults: %s", err)
		return
	}
	normalize(&state)

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// normalize restores the invariants a decoded document may violate.
func normalize(state *models.PreferencesState) {
	if len(state.SelectedProfiles) == 0 {
		state.SelectedProfiles = BaseProfiles()
	}
	if state.SelectedThemes == nil {
		state.SelectedThemes = []string{}
	}
	if state.ProfileSponsoringPrefs == nil {
		state.ProfileSponsoringPrefs = map[string]models.SponsoringPrefs{}
	}
	if state.ProfileSocialConnections == nil {
		state.ProfileSocialConnections = map[string][]models.SocialConnection{}
	}
	prune(state)
	clampActive(state)
}

// prune drops per-profile records of profiles that are no longer selected.
func prune(state *models.PreferencesState) {
	known := make(map[string]struct{}, len(state.SelectedProfiles))
	for _, p := range state.SelectedProfiles {
		known[p.ID] = struct{}{}
	}
	for id := range state.ProfileSponsoringPrefs {
		if _, ok := known[id]; !ok {
			delete(state.ProfileSponsoringPrefs, id)
		}
	}
	for id := range state.ProfileSocialConnections {
		if _, ok := known[id]; !ok {
			delete(state.ProfileSocialConnections, id)
		}
	}
}

func clampActive(state *models.PreferencesState) {
	if state.ActiveProfileIndex >= len(state.SelectedProfiles) {
		state.ActiveProfileIndex = len(state.SelectedProfiles) - 1
	}
	if state.ActiveProfileIndex < 0 {
		state.ActiveProfileIndex = 0
	}
}

// persist must be called with s.mu held.
func (s *PreferencesService) persist() {
	s.persister.Save(PreferencesKey, models.PreferencesEnvelope{
		State:   s.state.Clone(),
		Version: PreferencesVersion,
	})
}

func (s *PreferencesService) Snapshot() models.PreferencesState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *PreferencesService) Profiles() []models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.UserProfile{}, s.state.SelectedProfiles...)
}

// AddProfile appends profile unless the list is full, the id is taken or
// the type is unknown. It reports whether the profile was added.
func (s *PreferencesService) AddProfile(profile models.UserProfile) bool {
	if !profile.Type.Valid() {
		s.noop.report("AddProfile: unknown profile type %q", profile.Type)
		return false
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.state.SelectedProfiles) >= MaxProfiles {
		s.noop.report("AddProfile: limit of %d profiles reached, %s ignored", MaxProfiles, profile.ID)
		return false
	}
	if s.state.ProfileIndex(profile.ID) >= 0 {
		s.noop.report("AddProfile: profile %s already exists", profile.ID)
		return false
	}
	s.state.SelectedProfiles = append(s.state.SelectedProfiles, profile)
	s.persist()
	return true
}

// RemoveProfile deletes the profile together with its sponsoring prefs and
// social connections.
func (s *PreferencesService) RemoveProfile(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.ProfileIndex(id)
	if idx < 0 {
		s.noop.report("RemoveProfile: unknown profile %s", id)
		return
	}

	profiles := make([]models.UserProfile, 0, len(s.state.SelectedProfiles)-1)
	profiles = append(profiles, s.state.SelectedProfiles[:idx]...)
	profiles = append(profiles, s.state.SelectedProfiles[idx+1:]...)
	s.state.SelectedProfiles = profiles
	delete(s.state.ProfileSponsoringPrefs, id)
	delete(s.state.ProfileSocialConnections, id)

	if idx < s.state.ActiveProfileIndex {
		s.state.ActiveProfileIndex--
	}
	clampActive(&s.state)
	s.persist()
}

// UpdateProfile replaces the profile fields; the id is kept.
func (s *PreferencesService) UpdateProfile(id string, profile models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.ProfileIndex(id)
	if idx < 0 {
		s.noop.report("UpdateProfile: unknown profile %s", id)
		return
	}
	profile.ID = id
	if !profile.Type.Valid() {
		profile.Type = s.state.SelectedProfiles[idx].Type
	}
	s.state.SelectedProfiles[idx] = profile
	s.persist()
}

// SetSelectedProfiles replaces the list. An empty list is replaced by the base profiles.
func (s *PreferencesService) SetSelectedProfiles(profiles []models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(profiles) == 0 {
		s.state.SelectedProfiles = BaseProfiles()
	} else {
		s.state.SelectedProfiles = append([]models.UserProfile{}, profiles...)
	}
	prune(&s.state)
	clampActive(&s.state)
	s.persist()
}

func (s *PreferencesService) SetActiveProfileIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.state.SelectedProfiles) {
		s.noop.report("SetActiveProfileIndex: index %d out of range", index)
		return
	}
	s.state.ActiveProfileIndex = index
	s.persist()
}

func (s *PreferencesService) ActiveProfile() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.state.ActiveProfileIndex
	if idx < 0 || idx >= len(s.state.SelectedProfiles) {
		return models.UserProfile{}, false
	}
	return s.state.SelectedProfiles[idx], true
}

func (s *PreferencesService) SelectedThemes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.state.SelectedThemes...)
}

func (s *PreferencesService) SetSelectedThemes(themes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedThemes = append([]string{}, themes...)
	s.persist()
}

func (s *PreferencesService) HasCompletedOnboarding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.HasCompletedOnboarding
}

func (s *PreferencesService) CompleteOnboarding() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HasCompletedOnboarding = true
	s.persist()
}

func (s *PreferencesService) SetProfileSponsoringPrefs(profileID string, prefs models.SponsoringPrefs) error {
	v := validate.Struct(&prefs)
	if !v.Validate() {
		return fmt.Errorf("invalid sponsoring prefs: %s", v.Errors.One())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.ProfileIndex(profileID) < 0 {
		s.noop.report("SetProfileSponsoringPrefs: unknown profile %s", profileID)
		return nil
	}
	s.state.ProfileSponsoringPrefs[profileID] = prefs
	s.persist()
	return nil
}

func (s *PreferencesService) GetProfileSponsoringPrefs(profileID string) models.SponsoringPrefs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if prefs, ok := s.state.ProfileSponsoringPrefs[profileID]; ok {
		return prefs
	}
	return models.DefaultSponsoringPrefs()
}

// SetSocialConnection stores conn, replacing any connection for the same platform.
func (s *PreferencesService) SetSocialConnection(profileID string, conn models.SocialConnection) {
	if !conn.Platform.Valid() {
		s.noop.report("SetSocialConnection: unknown platform %q", conn.Platform)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.ProfileIndex(profileID) < 0 {
		s.noop.report("SetSocialConnection: unknown profile %s", profileID)
		return
	}

	existing := s.state.ProfileSocialConnections[profileID]
	next := make([]models.SocialConnection, 0, len(existing)+1)
	for _, c := range existing {
		if c.Platform != conn.Platform {
			next = append(next, c)
		}
	}
	next = append(next, models.CloneConnections([]models.SocialConnection{conn})...)
	s.state.ProfileSocialConnections[profileID] = next
	s.persist()
}

func (s *PreferencesService) RemoveSocialConnection(profileID string, platform models.SocialPlatform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.state.ProfileSocialConnections[profileID]
	next := make([]models.SocialConnection, 0, len(existing))
	for _, c := range existing {
		if c.Platform != platform {
			next = append(next, c)
		}
	}
	if len(next) == len(existing) {
		s.noop.report("RemoveSocialConnection: no %s connection for profile %s", platform, profileID)
		return
	}
	if len(next) == 0 {
		delete(s.state.ProfileSocialConnections, profileID)
	} else {
		s.state.ProfileSocialConnections[profileID] = next
	}
	s.persist()
}

func (s *PreferencesService) GetSocialConnections(profileID string) []models.SocialConnection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conns := models.CloneConnections(s.state.ProfileSocialConnections[profileID])
	if conns == nil {
		return []models.SocialConnection{}
	}
	return conns
}

// SyncFromUser applies the profile, theme and onboarding fields of a server user.
func (s *PreferencesService) SyncFromUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(user.Profiles) == 0 {
		s.state.SelectedProfiles = BaseProfiles()
	} else {
		s.state.SelectedProfiles = append([]models.UserProfile{}, user.Profiles...)
	}
	s.state.ActiveProfileIndex = user.ActiveProfileIndex
	s.state.SelectedThemes = append([]string{}, user.SelectedThemes...)
	s.state.HasCompletedOnboarding = user.HasCompletedOnboarding
	prune(&s.state)
	clampActive(&s.state)
	s.persist()
}

// ResetPreferences returns to defaults and drops the persisted document.
func (s *PreferencesService) ResetPreferences() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = defaultPreferences()
	s.persister.Remove(PreferencesKey)
}

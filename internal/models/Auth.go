package models

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type User struct {
	ID                     string        `json:"id"`
	Email                  string        `json:"email"`
	Name                   string        `json:"name"`
	Avatar                 string        `json:"avatar,omitempty"`
	Phone                  string        `json:"phone,omitempty"`
	Profiles               []UserProfile `json:"profiles"`
	ActiveProfileIndex     int           `json:"active_profile_index"`
	SelectedThemes         []string      `json:"selected_themes"`
	HasCompletedOnboarding bool          `json:"has_completed_onboarding"`
}

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

func (a AuthResponse) Tokens() TokenPair {
	return TokenPair{
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		ExpiresIn:    a.ExpiresIn,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateUserRequest only sends the fields that are set.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
	Phone  *string `json:"phone,omitempty"`
}

type UpdateProfilesRequest struct {
	Profiles           []UserProfile `json:"profiles"`
	ActiveProfileIndex int           `json:"active_profile_index"`
}

type UpdateThemesRequest struct {
	Themes []string `json:"themes"`
}

type CompleteOnboardingRequest struct {
	Profiles []UserProfile `json:"profiles"`
	Themes   []string      `json:"themes"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

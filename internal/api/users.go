package api

import (
	"context"
	"kickoff/internal/models"
	"kickoff/internal/providers"
	"net/http"
	"net/url"
)

// Register creates an account and persists the returned token pair.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	resp, err := Post[models.AuthResponse](ctx, c, "/users/register", req)
	if err != nil {
		return nil, err
	}
	c.tokens.Set(ctx, resp.Tokens())
	c.logger.Infof(providers.TypeApi, "Registered user %s", resp.User.ID)
	return &resp, nil
}

// Login authenticates and persists the returned token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	resp, err := Post[models.AuthResponse](ctx, c, "/users/login", models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	c.tokens.Set(ctx, resp.Tokens())
	c.logger.Infof(providers.TypeApi, "Logged in as %s", resp.User.ID)
	return &resp, nil
}

// Logout only drops the local pair; the backend has no logout endpoint.
func (c *Client) Logout(ctx context.Context) {
	c.tokens.Clear(ctx)
}

func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return c.tokens.Get(ctx) != nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	user, err := Get[models.User](ctx, c, "/users/me")
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateMe(ctx context.Context, req models.UpdateUserRequest) (*models.User, error) {
	user, err := Put[models.User](ctx, c, "/users/me", req)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfiles(ctx context.Context, profiles []models.UserProfile, activeIndex int) (*models.User, error) {
	user, err := Put[models.User](ctx, c, "/users/me/profiles", models.UpdateProfilesRequest{
		Profiles:           profiles,
		ActiveProfileIndex: activeIndex,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateThemes(ctx context.Context, themes []string) (*models.User, error) {
	user, err := Put[models.User](ctx, c, "/users/me/themes", models.UpdateThemesRequest{Themes: themes})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CompleteOnboarding(ctx context.Context, profiles []models.UserProfile, themes []string) (*models.User, error) {
	user, err := Post[models.User](ctx, c, "/users/me/complete-onboarding", models.CompleteOnboardingRequest{
		Profiles: profiles,
		Themes:   themes,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.Do(ctx, http.MethodPost, "/users/me/change-password", models.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}, nil)
}

// DeleteAccount removes the account server side, then the local pair.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.Do(ctx, http.MethodDelete, "/users/me", nil, nil); err != nil {
		return err
	}
	c.tokens.Clear(ctx)
	return nil
}

func (c *Client) LinkOAuth(ctx context.Context, provider, providerUserID string) error {
	query := url.Values{}
	query.Set("provider", provider)
	query.Set("provider_user_id", providerUserID)
	return c.Do(ctx, http.MethodPost, "/users/me/link-oauth?"+query.Encode(), nil, nil)
}

func (c *Client) UnlinkOAuth(ctx context.Context, provider string) error {
	return c.Do(ctx, http.MethodDelete, "/users/me/unlink-oauth/"+url.PathEscape(provider), nil, nil)
}

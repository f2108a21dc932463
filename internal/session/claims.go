package session

import (
	"errors"
	"github.com/golang-jwt/jwt/v5"
	"time"
)

// TokenInfo is what can be read from an access token without verifying it.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Inspect decodes the claims of a JWT access token without checking its
// signature. The result is for display only.
func Inspect(token string) (TokenInfo, error) {
	if token == "" {
		return TokenInfo{}, errors.New("empty token")
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, err
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

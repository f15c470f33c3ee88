package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the display-only view of an access token.
type Claims struct {
	Subject string
	Expiry  time.Time
}

// Expired reports whether the token expiry is known and in the past.
func (c *Claims) Expired(now time.Time) bool {
	return !c.Expiry.IsZero() && now.After(c.Expiry)
}

// AccessClaims decodes the access token claims without verifying the signature.
// The backend remains the only authority on token validity.
func (s *Session) AccessClaims() (*Claims, error) {
	accessToken := s.AccessToken()
	if accessToken == "" {
		return nil, ErrNoAccessToken
	}
	registered := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, registered); err != nil {
		return nil, fmt.Errorf("failed to decode access token: %w", err)
	}
	ret := &Claims{Subject: registered.Subject}
	if registered.ExpiresAt != nil {
		ret.Expiry = registered.ExpiresAt.Time
	}
	return ret, nil
}

package mock

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	TokenType  string `json:"token_type"`
	Role       string `json:"role,omitempty"`
	Generation int64  `json:"gen"`
}

// createJWT creates a signed HS256 token for user with the given type and expiry
func (b *Backend) createJWT(user *User, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		TokenType:  tokenType,
		Role:       user.Role,
		Generation: b.generation.Load(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

// parseJWT validates signature, expiry and type; access tokens must belong to the current generation.
func (b *Backend) parseJWT(raw, tokenType string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return b.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("token has wrong type %q", claims.TokenType)
	}
	if tokenType == accessTokenType && claims.Generation != b.generation.Load() {
		return nil, errors.New("token has been revoked")
	}
	return claims, nil
}

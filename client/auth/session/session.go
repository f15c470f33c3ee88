package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNoAccessToken is returned when a token is requested from an empty session.
var ErrNoAccessToken = errors.New("no access token")

// Session is the process-wide credential holder. It is safe for concurrent use.
type Session struct {
	mu          sync.RWMutex
	credentials Credentials
	// writeMu serializes mutation+persistence so the medium sees writes in order.
	writeMu   sync.Mutex
	persister Persister
	logger    *slog.Logger
}

// New creates a session
func New(options ...Option) *Session {
	ret := &Session{logger: slog.Default()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// SetCredentials replaces every field. Tokens are opaque and not validated.
func (s *Session) SetCredentials(ctx context.Context, credentials Credentials) error {
	return s.mutate(ctx, func(c *Credentials) {
		*c = credentials
	})
}

// Clear removes all fields. Clearing an empty session is a no-op apart from persistence.
func (s *Session) Clear(ctx context.Context) error {
	return s.mutate(ctx, func(c *Credentials) {
		*c = Credentials{}
	})
}

// ReplaceAccessToken sets the access token only while the stored refresh token is still refreshToken.
// It reports false, leaving the session untouched, when a login or clear happened in between.
func (s *Session) ReplaceAccessToken(ctx context.Context, refreshToken, accessToken string) (bool, error) {
	return s.mutateIf(ctx, refreshToken, func(c *Credentials) {
		c.AccessToken = accessToken
	})
}

// ClearRefreshed clears the session only while the stored refresh token is still refreshToken.
func (s *Session) ClearRefreshed(ctx context.Context, refreshToken string) (bool, error) {
	return s.mutateIf(ctx, refreshToken, func(c *Credentials) {
		*c = Credentials{}
	})
}

func (s *Session) mutate(ctx context.Context, fn func(c *Credentials)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	fn(&s.credentials)
	snapshot := s.credentials
	s.mu.Unlock()
	return s.persist(ctx, &snapshot)
}

func (s *Session) mutateIf(ctx context.Context, refreshToken string, fn func(c *Credentials)) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	if s.credentials.IsZero() || s.credentials.RefreshToken != refreshToken {
		s.mu.Unlock()
		return false, nil
	}
	fn(&s.credentials)
	snapshot := s.credentials
	s.mu.Unlock()
	return true, s.persist(ctx, &snapshot)
}

func (s *Session) persist(ctx context.Context, snapshot *Credentials) error {
	if s.persister == nil {
		return nil
	}
	if snapshot.RememberMe && !snapshot.IsZero() {
		if err := s.persister.Save(ctx, snapshot); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
		return nil
	}
	if err := s.persister.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete persisted session: %w", err)
	}
	return nil
}

// Restore loads remembered credentials from the persister.
// It returns false when nothing was stored.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	if s.persister == nil {
		return false, nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	credentials, err := s.persister.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to restore session: %w", err)
	}
	if credentials.IsZero() {
		return false, nil
	}
	s.mu.Lock()
	s.credentials = *credentials
	s.mu.Unlock()
	s.logger.Debug("session restored", "userId", credentials.UserID, "role", credentials.Role)
	return true, nil
}

// AccessToken returns the current access token or "" when absent.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credentials.AccessToken
}

// RefreshToken returns the current refresh token or "" when absent.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credentials.RefreshToken
}

func (s *Session) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credentials.Role
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credentials.UserID
}

func (s *Session) RememberMe() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credentials.RememberMe
}

// Credentials returns a copy of the current credentials.
func (s *Session) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credentials
}

// Authenticated reports whether an access token is present.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// Token implements oauth2.TokenSource over the current access token.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.credentials.AccessToken == "" {
		return nil, ErrNoAccessToken
	}
	return &oauth2.Token{
		AccessToken:  s.credentials.AccessToken,
		RefreshToken: s.credentials.RefreshToken,
		TokenType:    "Bearer",
	}, nil
}

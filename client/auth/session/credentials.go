package session

import "context"

// Credentials represents the authenticated identity of the current user.
// Empty strings mean "absent".
type Credentials struct {
	AccessToken  string `json:"access,omitempty" yaml:"access,omitempty"`
	RefreshToken string `json:"refresh,omitempty" yaml:"refresh,omitempty"`
	Role         Role   `json:"role,omitempty" yaml:"role,omitempty"`
	UserID       string `json:"userId,omitempty" yaml:"userId,omitempty"`
	RememberMe   bool   `json:"rememberMe,omitempty" yaml:"rememberMe,omitempty"`
}

// IsZero reports whether no field is set.
func (c *Credentials) IsZero() bool {
	return c == nil || *c == Credentials{}
}

// Persister mirrors session credentials to a durable medium.
// Load returns nil credentials and no error when nothing is stored.
type Persister interface {
	Load(ctx context.Context) (*Credentials, error)
	Save(ctx context.Context, credentials *Credentials) error
	Delete(ctx context.Context) error
}

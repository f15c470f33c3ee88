package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edupath/dashclient/client/auth/session"
	"github.com/viant/afs"
	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
)

// DefaultSecretKey encrypts with the built-in blowfish key.
const DefaultSecretKey = "blowfish://default"

// SecretStore persists credentials encrypted with a scy key, so refresh tokens are never stored in clear text.
type SecretStore struct {
	fs      afs.Service
	secrets *scy.Service
	URL     string
	Key     string
}

func (s *SecretStore) resource() *scy.Resource {
	return scy.NewResource(&session.Credentials{}, s.URL, s.Key)
}

func (s *SecretStore) Load(ctx context.Context) (*session.Credentials, error) {
	ok, err := s.fs.Exists(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check %v: %w", s.URL, err)
	}
	if !ok {
		return nil, nil
	}
	secret, err := s.secrets.Load(ctx, s.resource())
	if err != nil {
		return nil, fmt.Errorf("failed to load secret %v: %w", s.URL, err)
	}
	switch actual := secret.Target.(type) {
	case *session.Credentials:
		return actual, nil
	case session.Credentials:
		return &actual, nil
	}
	ret := &session.Credentials{}
	if err = json.Unmarshal([]byte(secret.String()), ret); err != nil {
		return nil, fmt.Errorf("failed to decode secret %v: %w", s.URL, err)
	}
	return ret, nil
}

func (s *SecretStore) Save(ctx context.Context, credentials *session.Credentials) error {
	snapshot := *credentials
	secret := scy.NewSecret(&snapshot, s.resource())
	if err := s.secrets.Store(ctx, secret); err != nil {
		return fmt.Errorf("failed to store secret %v: %w", s.URL, err)
	}
	return nil
}

func (s *SecretStore) Delete(ctx context.Context) error {
	return deleteIfExists(ctx, s.fs, s.URL)
}

// NewSecretStore creates an encrypted file store; an empty key selects DefaultSecretKey.
func NewSecretStore(URL, key string) *SecretStore {
	if key == "" {
		key = DefaultSecretKey
	}
	return &SecretStore{fs: afs.New(), secrets: scy.New(), URL: URL, Key: key}
}

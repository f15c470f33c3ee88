package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/edupath/dashclient/client/auth/session"
	"github.com/viant/afs"
)

// FileStore persists credentials as JSON at an afs URL (local path, file://, mem://, ...).
type FileStore struct {
	fs  afs.Service
	URL string
}

func (f *FileStore) Load(ctx context.Context) (*session.Credentials, error) {
	ok, err := f.fs.Exists(ctx, f.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check %v: %w", f.URL, err)
	}
	if !ok {
		return nil, nil
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", f.URL, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	ret := &session.Credentials{}
	if err = json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode %v: %w", f.URL, err)
	}
	return ret, nil
}

func (f *FileStore) Save(ctx context.Context, credentials *session.Credentials) error {
	data, err := json.MarshalIndent(credentials, "", "  ")
	if err != nil {
		return err
	}
	if err = f.fs.Upload(ctx, f.URL, 0o600, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload %v: %w", f.URL, err)
	}
	return nil
}

func (f *FileStore) Delete(ctx context.Context) error {
	return deleteIfExists(ctx, f.fs, f.URL)
}

func deleteIfExists(ctx context.Context, fs afs.Service, URL string) error {
	ok, err := fs.Exists(ctx, URL)
	if err != nil || !ok {
		return err
	}
	return fs.Delete(ctx, URL)
}

// NewFileStore creates a Store that persists credentials at the given URL.
func NewFileStore(URL string) *FileStore {
	return &FileStore{fs: afs.New(), URL: URL}
}

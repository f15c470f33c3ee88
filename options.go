package dashclient

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// LoadOptions reads ClientOptions from a YAML file at URL (any afs supported scheme).
func LoadOptions(ctx context.Context, URL string) (*ClientOptions, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load options %v: %w", URL, err)
	}
	ret := &ClientOptions{}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode options %v: %w", URL, err)
	}
	return ret, nil
}

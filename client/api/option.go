package api

import (
	"log/slog"
	"net/http"
)

type Option func(*Client)

// WithHTTPClient sets the client used for public endpoints
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDeleteConcurrency bounds parallel deletes in DeleteUsers.
func WithDeleteConcurrency(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.deleteConcurrency = limit
		}
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/edupath/dashclient/client/auth/session"
	"github.com/edupath/dashclient/client/auth/transport"
)

// Client calls the platform REST API.
type Client struct {
	baseURL           string
	http              *http.Client
	executor          *transport.Executor
	logger            *slog.Logger
	deleteConcurrency int
}

// New creates a client for baseURL (e.g. https://api.example.com/api/) using executor for authenticated calls.
func New(baseURL string, executor *transport.Executor, options ...Option) *Client {
	ret := &Client{
		baseURL:           strings.TrimRight(baseURL, "/") + "/",
		http:              http.DefaultClient,
		executor:          executor,
		logger:            slog.Default(),
		deleteConcurrency: 4,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session {
	return c.executor.Session()
}

// URL resolves an API path against the base URL.
func (c *Client) URL(path string, query url.Values) string {
	ret := c.baseURL + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		ret += "?" + query.Encode()
	}
	return ret
}

// authorized sends an authenticated request and decodes the body into out (if not nil).
func authorized[O any](ctx context.Context, c *Client, method, path string, query url.Values, payload interface{}) (*O, error) {
	factory, err := transport.NewJSONRequest(method, c.URL(path, query), payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.executor.Execute(ctx, factory)
	if err != nil {
		return nil, err
	}
	return decode[O](resp)
}

// public sends an unauthenticated request and decodes the body.
func public[O any](ctx context.Context, c *Client, method, path string, payload interface{}) (*O, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %v %v payload: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, nil), reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, &transport.Error{Kind: transport.KindRequestFailed, Err: err}
	}
	defer httpResp.Body.Close()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &transport.Error{Kind: transport.KindRequestFailed, StatusCode: httpResp.StatusCode, Err: err}
	}
	resp := &transport.Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: body}
	if !resp.OK() {
		return nil, &transport.Error{
			Kind:       transport.KindRequestFailed,
			StatusCode: resp.StatusCode,
			API:        transport.ParseAPIError(resp.StatusCode, body),
			Response:   resp,
		}
	}
	return decode[O](resp)
}

func decode[O any](resp *transport.Response) (*O, error) {
	ret := new(O)
	if err := resp.Decode(ret); err != nil {
		return nil, &transport.Error{
			Kind:       transport.KindRequestFailed,
			StatusCode: resp.StatusCode,
			Response:   resp,
			Err:        fmt.Errorf("malformed response: %w", err),
		}
	}
	return ret, nil
}

// empty is the decode target for endpoints whose body is ignored.
type empty struct{}

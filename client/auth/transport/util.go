package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// NewRequest returns a factory for a bearer-authenticated JSON request; body may be nil.
func NewRequest(method, URL string, body []byte) RequestFactory {
	return func(ctx context.Context, accessToken string) (*http.Request, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, URL, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		setBearer(req, accessToken)
		return req, nil
	}
}

// NewJSONRequest encodes payload once and returns a factory replaying it on every attempt.
func NewJSONRequest(method, URL string, payload interface{}) (RequestFactory, error) {
	if payload == nil {
		return NewRequest(method, URL, nil), nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %v %v payload: %w", method, URL, err)
	}
	return NewRequest(method, URL, body), nil
}

func setBearer(req *http.Request, accessToken string) {
	token := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	token.SetAuthHeader(req)
}

// bufferBody drains the request body so it can be replayed on retry.
func bufferBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(buf))
	return buf, nil
}

func clone(ctx context.Context, r *http.Request, body []byte) *http.Request {
	cloned := r.Clone(ctx)
	if body != nil {
		cloned.Body = io.NopCloser(bytes.NewReader(body))
		cloned.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		cloned.ContentLength = int64(len(body))
	}
	return cloned
}

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, refreshToken string) (string, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return f(ctx, refreshToken)
}

// ErrRefreshRejected is wrapped by every refresh endpoint rejection.
var ErrRefreshRejected = errors.New("refresh token rejected")

// RefreshError describes a refresh endpoint rejection.
type RefreshError struct {
	StatusCode int
	API        *APIError
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("%v: %v", ErrRefreshRejected, e.API)
}

func (e *RefreshError) Unwrap() error {
	return ErrRefreshRejected
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// HTTPRefresher calls the token refresh endpoint: POST {"refresh": ...} -> {"access": ...}.
type HTTPRefresher struct {
	URL    string
	Client *http.Client
}

func (r *HTTPRefresher) Refresh(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(&refreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := r.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call refresh endpoint: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read refresh response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RefreshError{StatusCode: resp.StatusCode, API: ParseAPIError(resp.StatusCode, body)}
	}
	var result refreshResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if result.Access == "" {
		return "", errors.New("refresh response did not contain an access token")
	}
	return result.Access, nil
}

// NewHTTPRefresher creates a refresher; a nil client uses http.DefaultClient.
func NewHTTPRefresher(URL string, client *http.Client) *HTTPRefresher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRefresher{URL: URL, Client: client}
}

package transport

import (
	"context"
	"errors"
	"net/http"
)

// RoundTripper authenticates every request through an Executor.
//
// Non-auth failures come back as ordinary responses so http.Client callers can
// inspect the status; Unauthenticated and SessionExpired are returned as errors.
type RoundTripper struct {
	executor *Executor
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := bufferBody(req)
	if err != nil {
		return nil, err
	}
	factory := func(ctx context.Context, accessToken string) (*http.Request, error) {
		attempt := clone(ctx, req, body)
		setBearer(attempt, accessToken)
		return attempt, nil
	}
	resp, err := r.executor.Execute(req.Context(), factory)
	if err == nil {
		return resp.HTTPResponse(req), nil
	}
	var execErr *Error
	if errors.As(err, &execErr) && execErr.Kind == KindRequestFailed && execErr.Response != nil {
		return execErr.Response.HTTPResponse(req), nil
	}
	return nil, err
}

// Executor returns the underlying executor.
func (r *RoundTripper) Executor() *Executor {
	return r.executor
}

// NewRoundTripper wraps executor.
func NewRoundTripper(executor *Executor) *RoundTripper {
	return &RoundTripper{executor: executor}
}

// NewHTTPClient returns an http.Client authenticated by executor.
func NewHTTPClient(executor *Executor) *http.Client {
	return &http.Client{Transport: NewRoundTripper(executor)}
}

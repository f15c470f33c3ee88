package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/edupath/dashclient/client/auth/session"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultRequestIDHeader carries the id shared by an attempt and its retry.
const DefaultRequestIDHeader = "X-Request-ID"

// RequestFactory builds the request for one attempt using the supplied access token.
// It is called once per attempt, so it must produce a fresh request (and body) every time.
type RequestFactory func(ctx context.Context, accessToken string) (*http.Request, error)

// Executor sends requests on behalf of the session and recovers once from an expired access token.
type Executor struct {
	session         *session.Session
	refresher       Refresher
	transport       http.RoundTripper
	authFailure     AuthFailure
	coalesce        bool
	group           singleflight.Group
	timeout         time.Duration
	requestIDHeader string
	logger          *slog.Logger
	metrics         *Metrics
}

// New creates an executor; a refresher is required.
func New(options ...Option) (*Executor, error) {
	ret := &Executor{
		transport:       http.DefaultTransport,
		authFailure:     DefaultAuthFailure,
		requestIDHeader: DefaultRequestIDHeader,
		logger:          slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.session == nil {
		ret.session = session.New()
	}
	if ret.refresher == nil {
		return nil, errors.New("refresher was not configured")
	}
	return ret, nil
}

// Session returns the credential holder used by the executor.
func (e *Executor) Session() *session.Session {
	return e.session
}

// Execute runs the authenticated-request protocol:
// no token fails fast, 2xx is returned as is, an auth failure triggers one
// refresh and one retry, anything else is a KindRequestFailed error.
func (e *Executor) Execute(ctx context.Context, factory RequestFactory) (*Response, error) {
	if getRequestID(ctx) == "" {
		ctx = WithRequestID(ctx, uuid.NewString())
	}
	token, err := e.session.Token()
	if err != nil {
		e.metrics.observeRequest(outcomeUnauthenticated)
		return nil, &Error{Kind: KindUnauthenticated, Err: err}
	}

	resp, err := e.send(ctx, factory, token.AccessToken)
	if err != nil {
		return nil, e.requestFailed(nil, err)
	}
	if resp.OK() {
		e.metrics.observeRequest(outcomeSuccess)
		return resp, nil
	}
	apiErr := ParseAPIError(resp.StatusCode, resp.Body)
	if !e.authFailure(resp.StatusCode, apiErr) {
		return nil, e.requestFailed(resp, nil)
	}
	return e.recover(ctx, factory, token.RefreshToken, resp, apiErr)
}

// recover refreshes with the refresh token paired with the rejected access token.
func (e *Executor) recover(ctx context.Context, factory RequestFactory, refreshToken string, rejected *Response, apiErr *APIError) (*Response, error) {
	if refreshToken == "" {
		return nil, e.expire(ctx, refreshToken, rejected, apiErr, ErrNoRefreshToken)
	}

	e.logger.Debug("access token rejected, refreshing", "requestId", getRequestID(ctx), "status", rejected.StatusCode)
	accessToken, err := e.refresh(ctx, refreshToken)
	if err != nil {
		if ctx.Err() != nil {
			// the caller gave up; the refresh endpoint did not reject the session
			return nil, e.requestFailed(rejected, ctx.Err())
		}
		e.metrics.observeRefresh(refreshFailure)
		return nil, e.expire(ctx, refreshToken, rejected, apiErr, err)
	}
	e.metrics.observeRefresh(refreshSuccess)
	replaced, err := e.session.ReplaceAccessToken(context.WithoutCancel(ctx), refreshToken, accessToken)
	if err != nil {
		e.logger.Warn("refreshed access token was not persisted", "requestId", getRequestID(ctx), "error", err)
	}
	if !replaced {
		e.logger.Info("session changed during refresh, dropping refreshed token", "requestId", getRequestID(ctx))
		return nil, e.requestFailed(rejected, ErrSessionChanged)
	}

	resp, err := e.send(ctx, factory, accessToken)
	if err != nil {
		return nil, e.requestFailed(nil, err)
	}
	if !resp.OK() {
		return nil, e.requestFailed(resp, nil)
	}
	e.metrics.observeRequest(outcomeRetried)
	return resp, nil
}

func (e *Executor) refresh(ctx context.Context, refreshToken string) (string, error) {
	if !e.coalesce {
		return e.refresher.Refresh(ctx, refreshToken)
	}
	// the shared refresh must outlive any single waiter's cancellation
	shared := context.WithoutCancel(ctx)
	ch := e.group.DoChan(refreshToken, func() (interface{}, error) {
		return e.refresher.Refresh(shared, refreshToken)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-ch:
		if result.Err != nil {
			return "", result.Err
		}
		return result.Val.(string), nil
	}
}

// expire clears the session the refresh was attempted for; a session replaced in the meantime is kept.
func (e *Executor) expire(ctx context.Context, refreshToken string, rejected *Response, apiErr *APIError, cause error) error {
	cleared, err := e.session.ClearRefreshed(context.WithoutCancel(ctx), refreshToken)
	if err != nil {
		e.logger.Warn("failed to clear persisted session", "requestId", getRequestID(ctx), "error", err)
	}
	if !cleared {
		e.logger.Info("session changed during refresh, keeping it", "requestId", getRequestID(ctx), "cause", cause)
		return e.requestFailed(rejected, fmt.Errorf("%w: %w", ErrSessionChanged, cause))
	}
	e.metrics.observeRequest(outcomeSessionExpired)
	e.logger.Info("session expired, cleared credentials", "requestId", getRequestID(ctx), "cause", cause)
	return &Error{Kind: KindSessionExpired, StatusCode: rejected.StatusCode, API: apiErr, Response: rejected, Err: cause}
}

func (e *Executor) requestFailed(resp *Response, cause error) error {
	e.metrics.observeRequest(outcomeRequestFailed)
	ret := &Error{Kind: KindRequestFailed, Response: resp, Err: cause}
	if resp != nil {
		ret.StatusCode = resp.StatusCode
		ret.API = ParseAPIError(resp.StatusCode, resp.Body)
	}
	return ret
}

func (e *Executor) send(ctx context.Context, factory RequestFactory, accessToken string) (*Response, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	req, err := factory(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if e.requestIDHeader != "" && req.Header.Get(e.requestIDHeader) == "" {
		req.Header.Set(e.requestIDHeader, getRequestID(ctx))
	}
	httpResp, err := e.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: body}, nil
}

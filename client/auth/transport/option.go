package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/edupath/dashclient/client/auth/session"
)

type Option func(*Executor)

// WithSession sets the credential holder
func WithSession(s *session.Session) Option {
	return func(e *Executor) {
		e.session = s
	}
}

// WithRefresher sets the token refresher
func WithRefresher(refresher Refresher) Option {
	return func(e *Executor) {
		e.refresher = refresher
	}
}

// WithTransport sets the round tripper used for resource requests
func WithTransport(transport http.RoundTripper) Option {
	return func(e *Executor) {
		if transport != nil {
			e.transport = transport
		}
	}
}

// WithAuthFailure overrides the expired-token predicate
func WithAuthFailure(predicate AuthFailure) Option {
	return func(e *Executor) {
		if predicate != nil {
			e.authFailure = predicate
		}
	}
}

// WithCoalescedRefresh shares one in-flight refresh among concurrent callers holding the same refresh token.
func WithCoalescedRefresh(enabled bool) Option {
	return func(e *Executor) {
		e.coalesce = enabled
	}
}

// WithRequestTimeout bounds every attempt; zero disables the bound.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(e *Executor) {
		e.timeout = timeout
	}
}

// WithRequestIDHeader sets the header carrying the per-call request id; empty disables it.
func WithRequestIDHeader(name string) Option {
	return func(e *Executor) {
		e.requestIDHeader = name
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets metrics
func WithMetrics(metrics *Metrics) Option {
	return func(e *Executor) {
		e.metrics = metrics
	}
}

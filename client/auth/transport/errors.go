package transport

import (
	"errors"
	"fmt"
)

// Kind classifies the outcome of an authenticated call.
type Kind int

const (
	// KindUnauthenticated means no access token was available; no request was sent.
	KindUnauthenticated Kind = iota + 1
	// KindRequestFailed covers every failure that is not an expired session.
	KindRequestFailed
	// KindSessionExpired means the token was rejected and could not be refreshed; the session was cleared.
	KindSessionExpired
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindRequestFailed:
		return "request_failed"
	case KindSessionExpired:
		return "session_expired"
	}
	return "unknown"
}

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrRequestFailed   = errors.New("request failed")
	ErrSessionExpired  = errors.New("session expired")

	// ErrNoRefreshToken is the cause of a SessionExpired error raised without a refresh attempt.
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrSessionChanged is the cause of a RequestFailed error when a login or logout
	// replaced the session while its token was being refreshed.
	ErrSessionChanged = errors.New("session changed during refresh")
)

// Error is the classified failure returned by Executor.Execute.
type Error struct {
	Kind       Kind
	StatusCode int
	API        *APIError
	// Response is the last response received, if any.
	Response *Response
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnauthenticated:
		return "unauthenticated: no access token"
	case KindSessionExpired:
		if e.Err != nil {
			return fmt.Sprintf("session expired: %v", e.Err)
		}
		return "session expired"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, e.Message())
	}
	return fmt.Sprintf("request failed: %s", e.Message())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels, so errors.Is(err, ErrSessionExpired) works through wrapping.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Kind == KindUnauthenticated
	case ErrRequestFailed:
		return e.Kind == KindRequestFailed
	case ErrSessionExpired:
		return e.Kind == KindSessionExpired
	}
	return false
}

// Message returns the text to show to a user.
func (e *Error) Message() string {
	if e.API != nil {
		if msg := e.API.Message(); msg != "" {
			return msg
		}
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return defaultMessage
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var execErr *Error
	if errors.As(err, &execErr) {
		return execErr.Kind
	}
	return 0
}

// NeedsLogin reports whether the caller must discard local state and send the user to login.
func NeedsLogin(err error) bool {
	kind := KindOf(err)
	return kind == KindUnauthenticated || kind == KindSessionExpired
}

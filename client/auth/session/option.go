package session

import "log/slog"

// Option configures a Session.
type Option func(*Session)

// WithPersister mirrors remembered credentials to persister.
func WithPersister(persister Persister) Option {
	return func(s *Session) {
		s.persister = persister
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCredentials seeds the session, typically in tests or after an out-of-band login.
func WithCredentials(credentials Credentials) Option {
	return func(s *Session) {
		s.credentials = credentials
	}
}

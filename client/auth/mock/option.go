package mock

import "time"

// Option configures a Backend
type Option func(b *Backend)

// WithSecret sets the HS256 signing secret
func WithSecret(secret []byte) Option {
	return func(b *Backend) {
		b.secret = secret
	}
}

// WithOTP sets the one-time password every login accepts
func WithOTP(otp string) Option {
	return func(b *Backend) {
		b.OTP = otp
	}
}

// WithAccessTTL sets access token lifetime
func WithAccessTTL(ttl time.Duration) Option {
	return func(b *Backend) {
		b.AccessTTL = ttl
	}
}

// WithRefreshTTL sets refresh token lifetime
func WithRefreshTTL(ttl time.Duration) Option {
	return func(b *Backend) {
		b.RefreshTTL = ttl
	}
}

// WithRequestLogging enables gin request logging
func WithRequestLogging() Option {
	return func(b *Backend) {
		b.logRequests = true
	}
}

// WithCors answers CORS preflight requests and sets CORS headers
func WithCors(cors *Cors) Option {
	return func(b *Backend) {
		b.cors = cors
	}
}

// Package mock provides an in-memory dashboard backend used to test the
// authenticated client end to end.
//
// The backend issues HS256 JWT access and refresh tokens, keeps users and
// invitations in memory, and answers with DRF style error bodies. Hooks allow
// tests to expire every issued access token or to reject refresh attempts.
package mock

// Package session holds the credentials of the signed-in dashboard user.
//
// A Session is the single writer of the access token, refresh token, role and
// user id. It is populated at login, its access token is replaced after a
// successful refresh, and it is cleared on logout or when a refresh fails.
// Persistence is delegated to a Persister (see the store package); the
// in-memory copy is always authoritative.
package session

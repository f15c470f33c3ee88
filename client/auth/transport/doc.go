// Package transport implements the authenticated-request protocol used by every
// protected dashboard API call.
//
// An Executor reads the access token from the session, sends the request built
// by a RequestFactory and, when the backend rejects the token (401 or the
// `token_not_valid` code), asks the Refresher for a new access token, stores it
// and replays the request exactly once. A failed refresh clears the session and
// surfaces KindSessionExpired, which callers treat as "log in again".
//
// RoundTripper adapts an Executor to http.RoundTripper so a plain http.Client
// gets the same behaviour.
package transport

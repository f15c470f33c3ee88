// Package api is a typed client for the placement platform REST API.
//
// Public endpoints (signup, OTP, login, invite lookup, password reset) are
// called directly. Every other endpoint goes through a transport.Executor, so
// an expired access token is refreshed and the call replayed once. Errors are
// *transport.Error values; use transport.NeedsLogin to decide when to send the
// user back to the login step.
package api

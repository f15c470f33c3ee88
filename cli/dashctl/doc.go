// Command dashctl is a command line client for the dashboard REST API.
//
// It signs in with email, password and a one-time password, keeps the session
// in the selected credential store (memory, file, encrypted secret or redis)
// and refreshes expired access tokens transparently.
package main

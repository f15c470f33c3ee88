// Package cli implements dashctl, a command line client for the dashboard API.
//
// Commands share global connection flags (or a YAML options file passed with
// --config) and a credential store, so a session remembered by "dashctl login
// --remember" is reused by later invocations until it expires.
package cli

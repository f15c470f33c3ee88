// Package dashclient provides a configured client for the dashboard REST API.
//
// The package glues the credential session (client/auth/session), the
// persistence backends (client/auth/store), the refresh-and-retry executor
// (client/auth/transport) and the endpoint wrappers (client/api) behind a
// single options structure that can be loaded from YAML or populated from
// command line flags.
//
// Typical usage:
//
//	options := &dashclient.ClientOptions{URL: "https://dashboard.example.com/api/"}
//	client, err := dashclient.NewClient(ctx, options)
//	if err != nil { ... }
//	defer client.Close()
//	users, err := client.ListUsers(ctx, 1, 10)
package dashclient

// Package store defines persistence backends for remembered dashboard sessions.
//
// Every backend holds a single credential record. The in-memory store suits
// tests and short-lived CLI runs; the file store (viant/afs) survives process
// restarts, the secret store additionally encrypts the record with viant/scy,
// and the Redis store lets several service replicas share one session.
package store

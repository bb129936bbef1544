// Package cli is the interactive text client.
//
// It reads one command per line, performs at most one request per command
// against the backend and re-fetches the inventory after every change.
// Filtering, alert grouping and recipe matching happen locally with the
// shared inventory package, so they also work on the offline snapshot.
package cli

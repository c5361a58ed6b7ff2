// Package client contains the remote side of the readkeeper client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the read-later service: OAuth request/authorize, list retrieval
//     (full snapshots and "since" deltas), action submission and adding items.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that keeps the
//     access token, tags every request with a correlation id and maps HTTP
//     failures to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations),
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrRateLimited,
// ErrActionRejected and ErrNotLoggedIn. HTTP failures come back as *APIError,
// which unwraps to the matching sentinel.
//
// No request is retried here; a failed call surfaces to the caller, which
// shows a status message and waits for the user or the next poll.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
//
// See Also
//
//   - Interface:  Client
//   - HTTP impl:  HTTPClient
//   - DB helpers: InitDatabase, RunMigrations
package client

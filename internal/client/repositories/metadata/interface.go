// Package metadata is the client's persistent key-value store: a single
// SQLite table of string keys and string values that survives restarts.
//
// The store has no multi-key atomicity of its own. Callers that need several
// keys to change together bind a repository to a *sql.Tx via dbx.WithTx.
package metadata

import (
	"context"
)

// Repository is a string-keyed store.
type Repository interface {
	// Get returns the value and true, or "" and false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set inserts or overwrites key.
	Set(ctx context.Context, key string, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns every stored pair.
	List(ctx context.Context) (map[string]string, error)
	// Clear removes every key.
	Clear(ctx context.Context) error
}

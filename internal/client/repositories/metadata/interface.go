// Package metadata persists small key/value records (session token, theme)
// in the client's local SQLite database.
package metadata

import "context"

// Repository is a durable key/value store. Get returns (nil, nil) for a
// missing key so callers can treat absence as an empty value.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

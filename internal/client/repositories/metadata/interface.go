// Package metadata stores small key/value records of the local client
// database, such as the persisted credential slots.
package metadata

import (
	"context"
)

// Repository is a key/value view over the metadata table.
// Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Package kvstore provides an expiring key-value store behind a small
// interface so that state shared across service instances (cached reports,
// short-lived codes) never lives in process-local maps.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is an expiring key-value store. A zero TTL means no expiry.
type Store interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Package persist writes whitelisted slices of owner state to durable
// key-value storage and reads them back once at startup.
package persist

import (
	"context"
	"errors"
	"strings"
)

// ErrNotConfigured is returned by adapters used without a backing store.
var ErrNotConfigured = errors.New("persistence store not configured")

// KV is the durable storage port. Values are opaque JSON documents.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

const keyPrefix = "persist:"

// Key builds the storage key of one slice for one owner, e.g. persist:cart:42.
func Key(slice, owner string) string {
	return keyPrefix + slice + ":" + owner
}

// SplitKey is the inverse of Key.
func SplitKey(key string) (slice, owner string, ok bool) {
	rest, found := strings.CutPrefix(key, keyPrefix)
	if !found {
		return "", "", false
	}
	return strings.Cut(rest, ":")
}

// Package storage persists graph snapshots and record databases as blobs on
// the local filesystem or in an S3 bucket.
package storage

import (
	"context"
	"path"
	"strings"
)

// Backend names used in errors and metrics labels.
const (
	BackendLocal  = "local"
	BackendS3     = "s3"
	BackendSnappy = "snappy"
)

// BlobStore defines the interface for abstract storage backends.
// Get returns an error matching ErrNotFound when the key does not exist.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// cleanKey normalises a slash-separated key and rejects keys that escape
// the store root.
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", ErrInvalidKey
		}
	}
	key = path.Clean(key)
	if key == "." {
		return "", ErrInvalidKey
	}
	return key, nil
}

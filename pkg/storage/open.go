package storage

import (
	"context"
	"fmt"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/logging"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/metrics"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string // BackendLocal or BackendS3
	Dir      string // root directory for the local backend
	S3       S3Options
	Compress bool // wrap the backend in a SnappyStore
}

// Open builds the configured store, compressed if requested and
// instrumented with reg and log.
func Open(ctx context.Context, opts Options, reg *metrics.Registry, log logging.Logger) (BlobStore, error) {
	var store BlobStore
	switch opts.Backend {
	case "", BackendLocal:
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		store = NewLocalStore(dir)
		opts.Backend = BackendLocal
	case BackendS3:
		s3Store, err := OpenS3Store(ctx, opts.S3)
		if err != nil {
			return nil, err
		}
		store = s3Store
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}

	if opts.Compress {
		store = NewSnappyStore(store)
	}
	return Instrument(store, opts.Backend, reg, log), nil
}

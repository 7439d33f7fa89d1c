package storage

import (
	"context"
	"fmt"

	"github.com/golang/snappy"
)

// SnappyStore compresses blobs with snappy block encoding before handing them
// to the wrapped store.
type SnappyStore struct {
	Inner BlobStore
}

func NewSnappyStore(inner BlobStore) *SnappyStore {
	return &SnappyStore{Inner: inner}
}

func (s *SnappyStore) Put(ctx context.Context, key string, data []byte) error {
	return s.Inner.Put(ctx, key, snappy.Encode(nil, data))
}

func (s *SnappyStore) Get(ctx context.Context, key string) ([]byte, error) {
	compressed, err := s.Inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, NewError("get").Backend(BackendSnappy).Key(key).
			Cause(fmt.Errorf("%w: %v", ErrCorruptBlob, err)).Err()
	}
	return data, nil
}

func (s *SnappyStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.Inner.List(ctx, prefix)
}

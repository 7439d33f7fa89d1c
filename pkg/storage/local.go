package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/mmap"
)

const tempPrefix = ".tmp-"

// LocalStore implements BlobStore for local filesystem. Writes go to a
// temporary file that is renamed over the target, so readers see either the
// previous blob or the new one, never a partial write.
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

func (s *LocalStore) path(key string) (string, string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", "", NewError("resolve").Backend(BackendLocal).Key(key).Cause(err).Err()
	}
	return k, filepath.Join(s.Root, filepath.FromSlash(k)), nil
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, path, err := s.path(key)
	if err != nil {
		return err
	}
	fail := func(err error) error {
		return NewError("put").Backend(BackendLocal).Key(key).Cause(err).Err()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fail(fmt.Errorf("failed to create directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+filepath.Base(path)+"-*")
	if err != nil {
		return fail(err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fail(err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		cleanup()
		return fail(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fail(err)
	}
	return nil
}

// Get maps the file and copies its contents out before unmapping.
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	reader, err := mmap.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrNotFound
		}
		return nil, NewError("get").Backend(BackendLocal).Key(key).Cause(err).Err()
	}
	defer reader.Close()

	data := make([]byte, reader.Len())
	if _, err := reader.ReadAt(data, 0); err != nil && len(data) > 0 {
		return nil, NewError("get").Backend(BackendLocal).Key(key).Cause(err).Err()
	}
	return data, nil
}

// List returns every key starting with prefix, sorted.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		if key := filepath.ToSlash(rel); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, NewError("list").Backend(BackendLocal).Key(prefix).Cause(err).Err()
	}

	sort.Strings(keys)
	return keys, nil
}

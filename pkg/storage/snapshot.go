package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/graph"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/records"
)

// Well-known keys.
const (
	GraphKey     = "graph_data.json"
	CompaniesKey = "company_data.json"
	AssetsKey    = "asset_data.json"
)

// SaveGraph writes g under key in the graph_data.json layout. The new
// snapshot replaces the previous one as a whole.
func SaveGraph(ctx context.Context, store BlobStore, key string, g *graph.Graph) error {
	var buf bytes.Buffer
	if err := graph.Encode(&buf, g); err != nil {
		return err
	}
	return store.Put(ctx, key, buf.Bytes())
}

// LoadGraph reads and validates the snapshot under key. A missing snapshot
// is reported as ErrNoSnapshot.
func LoadGraph(ctx context.Context, store BlobStore, key string) (*graph.Graph, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", ErrNoSnapshot, err)
		}
		return nil, err
	}
	g, err := graph.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", key, err)
	}
	return g, nil
}

// SaveRecords writes both record databases.
func SaveRecords(ctx context.Context, store BlobStore, companies []records.Company, assets []records.Asset) error {
	if err := putJSON(ctx, store, CompaniesKey, companies); err != nil {
		return err
	}
	return putJSON(ctx, store, AssetsKey, assets)
}

// LoadRecords reads both record databases. A database that does not exist
// yet reads as empty.
func LoadRecords(ctx context.Context, store BlobStore) ([]records.Company, []records.Asset, error) {
	var companies []records.Company
	data, err := store.Get(ctx, CompaniesKey)
	switch {
	case err == nil:
		if companies, err = records.ReadCompanies(bytes.NewReader(data)); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", CompaniesKey, err)
		}
	case !IsNotFound(err):
		return nil, nil, err
	}

	var assets []records.Asset
	data, err = store.Get(ctx, AssetsKey)
	switch {
	case err == nil:
		if assets, err = records.ReadAssets(bytes.NewReader(data)); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", AssetsKey, err)
		}
	case !IsNotFound(err):
		return nil, nil, err
	}
	return companies, assets, nil
}

func putJSON(ctx context.Context, store BlobStore, key string, v any) error {
	var buf bytes.Buffer
	if err := records.WriteJSON(&buf, v); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return store.Put(ctx, key, buf.Bytes())
}

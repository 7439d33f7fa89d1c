package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ReadCompanies decodes a company database: a JSON array of Company objects.
// An empty stream is an empty database.
func ReadCompanies(r io.Reader) ([]Company, error) {
	var companies []Company
	if err := decodeArray(r, &companies); err != nil {
		return nil, fmt.Errorf("decode company database: %w", err)
	}
	return companies, nil
}

// ReadAssets decodes an asset database: a JSON array of Asset objects.
func ReadAssets(r io.Reader) ([]Asset, error) {
	var assets []Asset
	if err := decodeArray(r, &assets); err != nil {
		return nil, fmt.Errorf("decode asset database: %w", err)
	}
	return assets, nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func decodeArray(r io.Reader, dst any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// MergeCompanies upserts incoming into existing by company_id. A replaced
// record keeps its original position; new ids are appended in input order.
// Neither argument is modified.
func MergeCompanies(existing, incoming []Company) []Company {
	return merge(existing, incoming, func(c Company) string { return c.CompanyID })
}

// MergeAssets upserts incoming into existing by company_asset_id.
func MergeAssets(existing, incoming []Asset) []Asset {
	return merge(existing, incoming, func(a Asset) string { return a.Key() })
}

func merge[T any](existing, incoming []T, key func(T) string) []T {
	out := make([]T, len(existing), len(existing)+len(incoming))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, rec := range out {
		index[key(rec)] = i
	}
	for _, rec := range incoming {
		k := key(rec)
		if i, ok := index[k]; ok {
			out[i] = rec
			continue
		}
		index[k] = len(out)
		out = append(out, rec)
	}
	return out
}

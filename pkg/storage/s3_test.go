package storage

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves the path-style PutObject, GetObject and ListObjectsV2 calls
// the store makes, for a single bucket.
type fakeS3 struct {
	bucket string

	mu      sync.Mutex
	objects map[string][]byte
}

type listBucketResult struct {
	XMLName     xml.Name `xml:"http://s3.amazonaws.com/doc/2006-03-01/ ListBucketResult"`
	Name        string   `xml:"Name"`
	Prefix      string   `xml:"Prefix"`
	KeyCount    int      `xml:"KeyCount"`
	IsTruncated bool     `xml:"IsTruncated"`
	Contents    []struct {
		Key  string `xml:"Key"`
		Size int    `xml:"Size"`
	} `xml:"Contents"`
}

func newFakeS3(t *testing.T, bucket string) *httptest.Server {
	t.Helper()
	f := &fakeS3{bucket: bucket, objects: make(map[string][]byte)}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	if bucket != f.bucket {
		writeS3Error(w, http.StatusNotFound, "NoSuchBucket")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPut && key != "":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeS3Error(w, http.StatusBadRequest, "IncompleteBody")
			return
		}
		f.objects[key] = body
		w.Header().Set("ETag", `"fake"`)
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodGet && key != "":
		body, ok := f.objects[key]
		if !ok {
			writeS3Error(w, http.StatusNotFound, "NoSuchKey")
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)

	case r.Method == http.MethodGet && r.URL.Query().Get("list-type") == "2":
		prefix := r.URL.Query().Get("prefix")
		result := listBucketResult{Name: f.bucket, Prefix: prefix}
		var keys []string
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			result.Contents = append(result.Contents, struct {
				Key  string `xml:"Key"`
				Size int    `xml:"Size"`
			}{Key: k, Size: len(f.objects[k])})
		}
		result.KeyCount = len(keys)
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		_ = xml.NewEncoder(w).Encode(result)

	default:
		writeS3Error(w, http.StatusMethodNotAllowed, "MethodNotAllowed")
	}
}

func writeS3Error(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>`+code+`</Code><Message>`+code+`</Message></Error>`)
}

func openFakeStore(t *testing.T, prefix string) *S3Store {
	t.Helper()
	srv := newFakeS3(t, "cidm-test")
	store, err := OpenS3Store(context.Background(), S3Options{
		Bucket:          "cidm-test",
		Prefix:          prefix,
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	return store
}

func TestS3Store_PutGetList(t *testing.T) {
	ctx := context.Background()
	store := openFakeStore(t, "cidm/")

	require.NoError(t, store.Put(ctx, "graph_data.json", []byte(`{"A":{}}`)))
	require.NoError(t, store.Put(ctx, "runs/r1.json", []byte("r1")))

	data, err := store.Get(ctx, "graph_data.json")
	require.NoError(t, err)
	assert.Equal(t, `{"A":{}}`, string(data))

	keys, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"graph_data.json", "runs/r1.json"}, keys)

	keys, err = store.List(ctx, "runs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/r1.json"}, keys)
}

func TestS3Store_MissingKey(t *testing.T) {
	store := openFakeStore(t, "")

	_, err := store.Get(context.Background(), "absent.json")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = LoadGraph(context.Background(), store, GraphKey)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestS3Store_GraphSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewSnappyStore(openFakeStore(t, "snapshots/"))
	g := testGraph(t)

	require.NoError(t, SaveGraph(ctx, store, GraphKey, g))
	back, err := LoadGraph(ctx, store, GraphKey)
	require.NoError(t, err)
	assert.Equal(t, g.Edges(), back.Edges())
}

func TestOpenS3Store_RequiresBucket(t *testing.T) {
	_, err := OpenS3Store(context.Background(), S3Options{Region: "us-east-1"})
	assert.Error(t, err)
}

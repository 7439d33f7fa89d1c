package storage

import (
	"context"
	"time"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/logging"
	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/metrics"
)

// InstrumentedStore records metrics and debug logs for every call on the
// wrapped store.
type InstrumentedStore struct {
	Inner   BlobStore
	Backend string
	Metrics *metrics.Registry
	Logger  logging.Logger
}

// Instrument wraps inner. A nil registry uses metrics.DefaultRegistry().
func Instrument(inner BlobStore, backend string, reg *metrics.Registry, log logging.Logger) *InstrumentedStore {
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &InstrumentedStore{
		Inner:   inner,
		Backend: backend,
		Metrics: reg,
		Logger:  logging.OrNop(log).With(logging.Component("storage"), logging.String("backend", backend)),
	}
}

func (s *InstrumentedStore) observe(op, key string, bytes int, err error, start time.Time) {
	elapsed := time.Since(start)
	s.Metrics.RecordStorageOperation(s.Backend, op, bytes, err, elapsed)
	if err != nil {
		s.Logger.Warn("storage operation failed",
			logging.Operation(op), logging.String("key", key), logging.Error(err))
		return
	}
	s.Logger.Debug("storage operation",
		logging.Operation(op), logging.String("key", key), logging.Int("bytes", bytes), logging.Latency(elapsed))
}

func (s *InstrumentedStore) Put(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := s.Inner.Put(ctx, key, data)
	s.observe("put", key, len(data), err, start)
	return err
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := s.Inner.Get(ctx, key)
	s.observe("get", key, len(data), err, start)
	return data, err
}

func (s *InstrumentedStore) List(ctx context.Context, prefix string) ([]string, error) {
	start := time.Now()
	keys, err := s.Inner.List(ctx, prefix)
	s.observe("list", prefix, 0, err, start)
	return keys, err
}

package database

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type Config struct {
	// ConnectionParams is a URI, the scheme selects the store type
	// (e.g. mongodb://localhost:27017).
	ConnectionParams string
	Database         string
	Collection       string
}

// Store is a document store. InsertMany inserts all documents as one
// batch and returns the number of inserted documents. A failure fails
// the whole batch.
type Store interface {
	InsertMany(ctx context.Context, docs []interface{}) (int, error)
	Close(ctx context.Context) error
}

// Sampler returns a single stored document for display.
type Sampler interface {
	Sample(ctx context.Context) (string, error)
}

type OpenFunc func(context.Context, Config) (Store, error)

var stores = make(map[string]OpenFunc)

func Register(name string, f OpenFunc) {
	stores[name] = f
}

// Open opens the store for the type of conf.ConnectionParams.
func Open(ctx context.Context, conf Config) (Store, error) {
	typ := ConnectionType(conf.ConnectionParams)
	newFunc, ok := stores[typ]
	if !ok {
		return nil, errors.New("unsupported database type: " + typ)
	}

	store, err := newFunc(ctx, conf)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func ConnectionType(param string) string {
	parts := strings.SplitN(param, ":", 2)
	return parts[0]
}

// MemStore keeps all inserted documents in memory. Used for dry runs
// with the memory: connection and for tests.
type MemStore struct {
	mu   sync.Mutex
	Docs []interface{}
	// Err is returned by InsertMany if set.
	Err error
}

func (m *MemStore) InsertMany(ctx context.Context, docs []interface{}) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.Docs = append(m.Docs, docs...)
	return len(docs), nil
}

func (m *MemStore) Close(ctx context.Context) error { return nil }

func (m *MemStore) Sample(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Docs) == 0 {
		return "", nil
	}
	return fmt.Sprintf("%v", m.Docs[0]), nil
}

func NewMemStore(ctx context.Context, conf Config) (Store, error) {
	return &MemStore{}, nil
}

func init() {
	Register("memory", NewMemStore)
}

package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"checkin-server-go/config"
)

// Persisted keys. Values are JSON strings.
const (
	ListKey      = "attendanceList" // single-list variant: JSON array of entries
	TabsKey      = "tabs"           // multi-tab variant: JSON array of tab names
	tabKeyPrefix = "a_"             // multi-tab variant: a_{tab} -> JSON array of entries
)

// ErrNotFound is returned by Get when the key has never been written or was removed.
var ErrNotFound = errors.New("key not found")

// TabKey returns the storage key of a tab's attendance list.
func TabKey(tab string) string {
	return tabKeyPrefix + tab
}

// Op is one write in a batch: a put, or a removal when Remove is set.
type Op struct {
	Key    string
	Value  string
	Remove bool
}

// Put builds a write op.
func Put(key, value string) Op {
	return Op{Key: key, Value: value}
}

// Delete builds a removal op.
func Delete(key string) Op {
	return Op{Key: key, Remove: true}
}

// Store is a string-valued key-value store scoped to one namespace.
// Apply writes all ops or none.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Apply(ctx context.Context, ops ...Op) error
	Close() error
}

// Open returns the backend selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	ns := cfg.Storage.Namespace
	switch cfg.Storage.Driver {
	case "", "memory":
		log.Println("Using in-memory storage; data is lost on restart")
		return NewMemoryStore(), nil
	case "redis":
		client, err := InitializeRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, ns), nil
	case "sqlite":
		return OpenSQLiteStore(ctx, cfg.SQLite.Path, ns)
	case "bolt":
		return OpenBoltStore(cfg.Bolt.Path, ns)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

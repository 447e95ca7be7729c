package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltStore keeps one bucket per namespace in a bbolt file.
type BoltStore struct {
	bdb    *bolt.DB
	bucket []byte
}

// OpenBoltStore opens (creating if needed) a bbolt file at path.
func OpenBoltStore(path, namespace string) (*BoltStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if namespace == "" {
		namespace = "default"
	}
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	s := &BoltStore{bdb: bdb, bucket: []byte(namespace)}
	err = bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("create bucket %s: %w", namespace, err)
	}
	return s, nil
}

// Get returns a copy of the value stored under key, or ErrNotFound
func (s *BoltStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var (
		value string
		found bool
	)
	err := s.bdb.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	if !found {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores value under key
func (s *BoltStore) Set(ctx context.Context, key, value string) error {
	return s.Apply(ctx, Put(key, value))
}

// Remove deletes key; removing a missing key is not an error
func (s *BoltStore) Remove(ctx context.Context, key string) error {
	return s.Apply(ctx, Delete(key))
}

// Apply runs all ops in one read-write transaction
func (s *BoltStore) Apply(ctx context.Context, ops ...Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.bdb.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		for _, op := range ops {
			if op.Remove {
				if err := b.Delete([]byte(op.Key)); err != nil {
					return fmt.Errorf("delete %s: %w", op.Key, err)
				}
				continue
			}
			if err := b.Put([]byte(op.Key), []byte(op.Value)); err != nil {
				return fmt.Errorf("put %s: %w", op.Key, err)
			}
		}
		return nil
	})
}

// Close releases the file lock
func (s *BoltStore) Close() error {
	if s == nil || s.bdb == nil {
		return nil
	}
	return s.bdb.Close()
}

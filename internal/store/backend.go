// Package store persists the case record as a single JSON blob per case.
//
// The blob lives behind a Backend so the same FormStore can sit on a local
// file, a SQLite database or a Redis instance.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by a Backend when the key holds no value.
var ErrNotFound = errors.New("store: key not found")

// Backend is a minimal key-value blob store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Kind names a backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindRedis  Kind = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Kind Kind
	// Path is the state directory for the file backend and the database file
	// for the sqlite backend.
	Path     string
	RedisURL string
}

// Open constructs the backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch Kind(strings.ToLower(string(opts.Kind))) {
	case KindFile, "":
		backend, err := NewFileBackend(opts.Path)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case KindSQLite:
		backend, err := OpenSQLite(ctx, opts.Path)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case KindRedis:
		backend, err := DialRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", opts.Kind)
	}
}

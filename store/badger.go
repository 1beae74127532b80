package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

// BadgerOptions configures the embedded badger backend.
type BadgerOptions struct {
	// Path is the directory for the database files. Ignored when InMemory.
	Path string
	// InMemory disables disk persistence. Used by tests.
	InMemory bool
	// SyncWrites flushes every write to disk before returning.
	SyncWrites bool
}

// DefaultBadgerOptions returns a durable on-disk configuration rooted at path.
func DefaultBadgerOptions(path string) BadgerOptions {
	return BadgerOptions{Path: path, SyncWrites: true}
}

// InMemoryBadgerOptions returns a configuration for tests: no disk I/O.
func InMemoryBadgerOptions() BadgerOptions {
	return BadgerOptions{InMemory: true}
}

// BadgerKV persists through an embedded badger database. This is the default
// local storage backend: durable, no external process required.
type BadgerKV struct {
	db *badger.DB
}

// NewBadgerKV opens (creating if needed) the badger database.
func NewBadgerKV(opts BadgerOptions) (*BadgerKV, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		dir := filepath.Clean(opts.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		bopts = badger.DefaultOptions(dir).WithSyncWrites(opts.SyncWrites)
	}
	bopts = bopts.WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &BadgerKV{db: db}, nil
}

func (b *BadgerKV) Get(_ context.Context, key string) (string, error) {
	var value string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return "", ErrMiss
		}
		return "", err
	}
	return value, nil
}

func (b *BadgerKV) Set(_ context.Context, key string, value string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

func (b *BadgerKV) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close releases the underlying database. Pending writes are flushed.
func (b *BadgerKV) Close() error {
	return b.db.Close()
}

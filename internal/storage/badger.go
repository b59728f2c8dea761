package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/starford/neuronpad/internal/apperr"
)

const badgerKeyPrefix = "neuronpad:"

// Badger implements Provider on an embedded Badger key/value store.
type Badger struct {
	kv *badger.DB
}

// OpenBadger opens (or creates) a Badger database in dir.
func OpenBadger(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	kv, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open badger: %w", err)
	}
	return &Badger{kv: kv}, nil
}

// Get returns a copy of the value stored under key.
func (b *Badger) Get(_ context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.kv.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("storage: get %s: %w", key, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: get %s: %w", key, err)
	}
	return data, nil
}

// Put replaces the value under key in one transaction.
func (b *Badger) Put(_ context.Context, key string, data []byte) error {
	err := b.kv.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+key), data)
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", key, err)
	}
	return nil
}

// Delete removes key; Badger treats deleting a missing key as success.
func (b *Badger) Delete(_ context.Context, key string) error {
	err := b.kv.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerKeyPrefix + key))
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// Close flushes and closes the database.
func (b *Badger) Close() error {
	return b.kv.Close()
}

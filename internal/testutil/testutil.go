// Package testutil provides shared test helpers for setting up stores.
package testutil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/starford/neuronpad/internal/notestore"
	"github.com/starford/neuronpad/internal/storage"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestFS creates a temporary file-backed record provider.
func TestFS(t *testing.T) *storage.FS {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

// TestStore creates a note store over a temporary file provider.
func TestStore(t *testing.T) (*notestore.Store, *storage.FS) {
	t.Helper()
	fs := TestFS(t)
	return notestore.New(fs, Logger()), fs
}

// ErrInjected is returned by FaultyProvider when a fault is armed.
var ErrInjected = errors.New("injected storage failure")

// FaultyProvider wraps a Provider and fails reads or writes on demand.
type FaultyProvider struct {
	storage.Provider

	mu        sync.Mutex
	failGet   bool
	failWrite bool
}

// NewFaultyProvider wraps p.
func NewFaultyProvider(p storage.Provider) *FaultyProvider {
	return &FaultyProvider{Provider: p}
}

// FailGet arms or disarms read failures.
func (f *FaultyProvider) FailGet(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet = on
}

// FailWrite arms or disarms Put and Delete failures.
func (f *FaultyProvider) FailWrite(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrite = on
}

func (f *FaultyProvider) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.Provider.Get(ctx, key)
}

func (f *FaultyProvider) Put(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	fail := f.failWrite
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.Provider.Put(ctx, key, data)
}

func (f *FaultyProvider) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.failWrite
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.Provider.Delete(ctx, key)
}

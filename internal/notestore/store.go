// Package notestore persists the note collection as a single serialized record.
//
// Every mutation loads the whole collection, changes it in memory and writes it
// back as one unit. A mutex serialises these load-mutate-store cycles so two
// callers in the same process can never lose each other's update.
package notestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/neuronpad/internal/apperr"
	"github.com/starford/neuronpad/internal/checksum"
	"github.com/starford/neuronpad/internal/models"
	"github.com/starford/neuronpad/internal/storage"
)

const authPassed = "true"

// ErrInvalidCategory is returned when a note carries a label outside the fixed set.
var ErrInvalidCategory = errors.New("notestore: invalid category")

// MutateFunc receives the stored note and returns its replacement. Returning
// false leaves the collection untouched.
type MutateFunc func(models.Note) (models.Note, bool)

// Store is the note collection repository.
type Store struct {
	mu      sync.Mutex
	rec     storage.Provider
	logger  *slog.Logger
	lastSum string
}

// New creates a Store over the given record provider.
func New(rec storage.Provider, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{rec: rec, logger: logger}
}

// GetAll returns the full collection, newest-created first. A missing,
// unreadable or corrupt collection yields an empty slice and no error.
func (s *Store) GetAll(ctx context.Context) []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("notestore: read failed, treating collection as empty", slog.String("error", err.Error()))
		return []models.Note{}
	}
	return notes
}

// Get returns the note with id, or apperr.ErrNotFound. Unlike GetAll, a
// storage or decode failure is returned.
func (s *Store) Get(ctx context.Context, id string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return models.Note{}, err
	}
	if i := indexOf(notes, id); i >= 0 {
		return notes[i], nil
	}
	return models.Note{}, apperr.ErrNotFound
}

// Save replaces the note with the same id in place, or inserts it at the front.
// A note whose title and content are both blank is discarded and Save reports
// false. Write failures are returned.
func (s *Store) Save(ctx context.Context, note models.Note) (bool, error) {
	if note.Blank() {
		return false, nil
	}
	if !note.Category.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidCategory, note.Category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.loadForWrite(ctx)
	if err != nil {
		return false, err
	}

	if i := indexOf(notes, note.ID); i >= 0 {
		notes[i] = note
	} else {
		notes = append([]models.Note{note}, notes...)
	}

	if err := s.store(ctx, notes); err != nil {
		return false, err
	}
	return true, nil
}

// Update applies mutate to the note with id and stores the result in place,
// all under one lock. It returns apperr.ErrNotFound when id is absent. When
// mutate declines, or returns a blank note, the stored note is returned with
// saved=false.
func (s *Store) Update(ctx context.Context, id string, mutate MutateFunc) (models.Note, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.loadForWrite(ctx)
	if err != nil {
		return models.Note{}, false, err
	}
	i := indexOf(notes, id)
	if i < 0 {
		return models.Note{}, false, apperr.ErrNotFound
	}

	existing := notes[i]
	next, ok := mutate(existing)
	if !ok || next.Blank() {
		return existing, false, nil
	}
	if !next.Category.Valid() {
		return models.Note{}, false, fmt.Errorf("%w: %q", ErrInvalidCategory, next.Category)
	}
	next.ID = existing.ID
	notes[i] = next

	if err := s.store(ctx, notes); err != nil {
		return models.Note{}, false, err
	}
	return next, true, nil
}

// Delete removes any note with id. Deleting an unknown id succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}

	kept := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	return s.store(ctx, kept)
}

// SetAuthPassed records that the user has unlocked the app once.
func (s *Store) SetAuthPassed(ctx context.Context) error {
	if err := s.rec.Put(ctx, storage.KeyAuth, []byte(authPassed)); err != nil {
		return fmt.Errorf("notestore: set auth: %w", err)
	}
	return nil
}

// HasAuthPassed reports whether the auth flag is set. Read failures report false.
func (s *Store) HasAuthPassed(ctx context.Context) bool {
	data, err := s.rec.Get(ctx, storage.KeyAuth)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.logger.Warn("notestore: read auth flag failed", slog.String("error", err.Error()))
		}
		return false
	}
	return string(data) == authPassed
}

// ClearAuth removes the auth flag.
func (s *Store) ClearAuth(ctx context.Context) error {
	if err := s.rec.Delete(ctx, storage.KeyAuth); err != nil {
		return fmt.Errorf("notestore: clear auth: %w", err)
	}
	return nil
}

// load reads and decodes the collection. A missing record is an empty collection.
func (s *Store) load(ctx context.Context) ([]models.Note, error) {
	data, err := s.rec.Get(ctx, storage.KeyNotes)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return []models.Note{}, nil
		}
		return nil, err
	}
	return decode(data)
}

// loadForWrite is load for mutations: corrupt data is replaced by an empty
// collection, but a storage read failure aborts the write.
func (s *Store) loadForWrite(ctx context.Context) ([]models.Note, error) {
	data, err := s.rec.Get(ctx, storage.KeyNotes)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return []models.Note{}, nil
		}
		return nil, fmt.Errorf("notestore: load: %w", err)
	}
	notes, err := decode(data)
	if err != nil {
		s.logger.Warn("notestore: corrupt collection overwritten", slog.String("error", err.Error()))
		return []models.Note{}, nil
	}
	return notes, nil
}

func (s *Store) store(ctx context.Context, notes []models.Note) error {
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("notestore: encode: %w", err)
	}
	if err := s.rec.Put(ctx, storage.KeyNotes, data); err != nil {
		return fmt.Errorf("notestore: write: %w", err)
	}
	s.lastSum = checksum.Sum(data)
	return nil
}

// OwnWrite reports whether sum is the checksum of the collection this store
// last wrote. The file watcher uses it to skip its own writes.
func (s *Store) OwnWrite(sum string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sum != "" && sum == s.lastSum
}

func indexOf(notes []models.Note, id string) int {
	for i := range notes {
		if notes[i].ID == id {
			return i
		}
	}
	return -1
}

func decode(data []byte) ([]models.Note, error) {
	var notes []models.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("notestore: decode: %w", err)
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

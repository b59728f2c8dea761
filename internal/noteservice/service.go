package noteservice

import (
	"context"
	"strings"
	"time"

	"github.com/starford/neuronpad/internal/categorizer"
	"github.com/starford/neuronpad/internal/models"
	"github.com/starford/neuronpad/internal/noteid"
	"github.com/starford/neuronpad/internal/notestore"
	"github.com/starford/neuronpad/internal/query"
)

// Event kinds passed to an EventFunc.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// EventFunc is called after a successful mutation.
type EventFunc func(kind, id string)

// Counts is the per-folder view of the collection.
type Counts struct {
	ByCategory map[models.Category]int `json:"counts"`
	All        int                     `json:"all"`
}

// Service applies the editor save rules on top of the note store.
type Service struct {
	store   *notestore.Store
	now     func() time.Time
	newID   func() string
	onEvent EventFunc
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithEvents registers a mutation listener.
func WithEvents(fn EventFunc) Option {
	return func(s *Service) { s.onEvent = fn }
}

// NewService creates a new note service.
func NewService(store *notestore.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		newID: noteid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the notes in category matching q, in collection order.
func (s *Service) List(ctx context.Context, category, q string) []models.Note {
	return query.Apply(s.store.GetAll(ctx), category, q)
}

// Counts returns per-category counts and the "All" total.
func (s *Service) Counts(ctx context.Context) Counts {
	counts := query.CountsByCategory(s.store.GetAll(ctx))
	return Counts{ByCategory: counts, All: query.Total(counts)}
}

// Get returns one note or apperr.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (models.Note, error) {
	return s.store.Get(ctx, id)
}

// Create saves a new note built from d. Blank drafts are discarded and
// Create returns saved=false with a zero note.
func (s *Service) Create(ctx context.Context, d models.Draft) (models.Note, bool, error) {
	d = trimDraft(d)
	if isBlankDraft(d) {
		return models.Note{}, false, nil
	}
	now := models.Millis(s.now())
	n := build(d, s.newID(), now, now)
	if _, err := s.store.Save(ctx, n); err != nil {
		return models.Note{}, false, err
	}
	s.emit(EventCreated, n.ID)
	return n, true, nil
}

// Update replaces the editable fields of note id with d, recomputing its
// category and bumping updatedAt. Blank drafts leave the note untouched.
// The read and the write happen under one store lock, so a concurrent
// Delete either wins (ErrNotFound) or removes the updated note.
func (s *Service) Update(ctx context.Context, id string, d models.Draft) (models.Note, bool, error) {
	d = trimDraft(d)
	blank := isBlankDraft(d)
	now := models.Millis(s.now())

	n, saved, err := s.store.Update(ctx, id, func(existing models.Note) (models.Note, bool) {
		if blank {
			return existing, false
		}
		updatedAt := now
		if updatedAt < existing.CreatedAt {
			updatedAt = existing.CreatedAt
		}
		return build(d, existing.ID, existing.CreatedAt, updatedAt), true
	})
	if err != nil {
		return models.Note{}, false, err
	}
	if saved {
		s.emit(EventUpdated, n.ID)
	}
	return n, saved, nil
}

// Delete removes note id; unknown ids succeed silently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.emit(EventDeleted, id)
	return nil
}

func (s *Service) emit(kind, id string) {
	if s.onEvent != nil {
		s.onEvent(kind, id)
	}
}

func build(d models.Draft, id string, createdAt, updatedAt int64) models.Note {
	return models.Note{
		ID:           id,
		Title:        d.Title,
		Content:      d.Content,
		Category:     categorizer.Categorize(d.Title, d.Content),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		IsBold:       d.IsBold,
		IsItalic:     d.IsItalic,
		HasBullets:   d.HasBullets,
		HasHighlight: d.HasHighlight,
	}
}

func trimDraft(d models.Draft) models.Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	return d
}

func isBlankDraft(d models.Draft) bool {
	return d.Title == "" && d.Content == ""
}

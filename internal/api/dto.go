package api

import "github.com/starford/neuronpad/internal/models"

// NoteRequest is the request body for creating or updating a note.
type NoteRequest = models.Draft

// NoteListResponse wraps a filtered note listing.
type NoteListResponse struct {
	Notes []models.Note `json:"notes" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// CountsResponse carries per-category counts; absent categories have no notes.
type CountsResponse struct {
	Counts map[models.Category]int `json:"counts" validate:"required"`
	All    int                     `json:"all" example:"42" validate:"required"`
}

// AuthResponse reports the unlock flag.
type AuthResponse struct {
	Passed bool `json:"passed"`
}

// TransformRequest is the body of POST /ai/summarize and /ai/grammar.
// Text is a pointer so a missing field can be told apart from an empty one.
type TransformRequest struct {
	Text *string `json:"text"`
}

// TransformResponse is the success body of the transform routes.
type TransformResponse struct {
	Result string `json:"result" validate:"required"`
}

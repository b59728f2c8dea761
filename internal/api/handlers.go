package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/neuronpad/internal/apperr"
	"github.com/starford/neuronpad/internal/noteservice"
)

const maxBodyBytes = 10 << 20

// Handler holds note route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes filtered by category and search text
//	@Tags			notes
//	@Produce		json
//	@Param			category	query		string	false	"Category label, or All"
//	@Param			q			query		string	false	"Case-insensitive substring of title or content"
//	@Success		200			{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	notes := h.svc.List(r.Context(), q.Get("category"), q.Get("q"))
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// Counts handles GET /api/notes/counts.
//
//	@Summary		Per-category note counts
//	@Tags			notes
//	@Produce		json
//	@Success		200	{object}	CountsResponse
//	@Security		BearerAuth
//	@Router			/notes/counts [get]
func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	c := h.svc.Counts(r.Context())
	writeJSON(w, http.StatusOK, CountsResponse{Counts: c.ByCategory, All: c.All})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	models.Note
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get note failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /api/notes. A blank draft is discarded with 204.
//
//	@Summary		Create a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NoteRequest	true	"Draft"
//	@Success		201		{object}	models.Note
//	@Success		204		"Blank draft discarded"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	note, saved, err := h.svc.Create(r.Context(), req)
	if err != nil {
		slog.Error("create note failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to save note"))
		return
	}
	if !saved {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /api/notes/{id}. A blank draft leaves the note as is (204).
//
//	@Summary		Replace a note's text and style flags
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Note id"
//	@Param			body	body		NoteRequest	true	"Draft"
//	@Success		200		{object}	models.Note
//	@Success		204		"Blank draft discarded"
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req NoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	note, saved, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("update note failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("failed to save note"))
		}
		return
	}
	if !saved {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}. Unknown ids also return 204.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		slog.Error("delete note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to delete note"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAuth handles GET /api/auth.
func (h *Handler) GetAuth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AuthResponse{Passed: h.svc.AuthPassed(r.Context())})
}

// SetAuth handles PUT /api/auth.
func (h *Handler) SetAuth(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SetAuthPassed(r.Context()); err != nil {
		slog.Error("set auth failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Passed: true})
}

// ClearAuth handles DELETE /api/auth.
func (h *Handler) ClearAuth(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearAuth(r.Context()); err != nil {
		slog.Error("clear auth failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

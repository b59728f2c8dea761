package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/neuronpad/internal/ai"
	"github.com/starford/neuronpad/internal/apperr"
)

// TransformHandler serves the summarize and grammar routes.
type TransformHandler struct {
	gw ai.Gateway
}

// NewTransformHandler creates a TransformHandler.
func NewTransformHandler(gw ai.Gateway) *TransformHandler {
	return &TransformHandler{gw: gw}
}

// Handle returns the handler for kind.
//
//	@Summary		Summarize or grammar-correct text
//	@Tags			ai
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TransformRequest	true	"Text to transform"
//	@Success		200		{object}	TransformResponse
//	@Failure		400		{object}	errResponse
//	@Failure		500		{object}	errResponse
//	@Router			/ai/summarize [post]
//	@Router			/ai/grammar [post]
func (h *TransformHandler) Handle(kind ai.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req TransformRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == nil || *req.Text == "" {
			writeJSON(w, http.StatusBadRequest, errorBody("Text is required"))
			return
		}

		result, err := h.gw.Transform(r.Context(), kind, *req.Text)
		if err != nil {
			var se *ai.ServiceError
			switch {
			case errors.Is(err, apperr.ErrEmptyInput):
				writeJSON(w, http.StatusBadRequest, errorBody("Text is required"))
			case errors.As(err, &se):
				writeJSON(w, http.StatusInternalServerError, errorBody(se.Message))
			default:
				slog.Error("transform failed", slog.String("kind", string(kind)), slog.String("error", err.Error()))
				writeJSON(w, http.StatusInternalServerError, errorBody("Internal server error"))
			}
			return
		}
		writeJSON(w, http.StatusOK, TransformResponse{Result: result})
	}
}

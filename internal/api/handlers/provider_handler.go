package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/alinamichelle/utilify/internal/application/services"
	apperrors "github.com/alinamichelle/utilify/pkg/errors"
)

// ProviderHandler handles utility provider resolution requests
type ProviderHandler struct {
	resolution *services.ResolutionService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(resolution *services.ResolutionService) *ProviderHandler {
	return &ProviderHandler{
		resolution: resolution,
	}
}

// Resolve handles GET /api/v1/providers?address=...
func (h *ProviderHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	result, err := h.resolution.Resolve(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			switch appErr.Type {
			case apperrors.ErrorTypeValidation, apperrors.ErrorTypeExternal:
				// Both semantic errors surface as client errors; the body
				// carries the user-facing message.
				respondWithError(w, http.StatusUnprocessableEntity, appErr.Message)
			default:
				respondWithError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

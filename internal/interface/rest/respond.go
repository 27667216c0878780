// internal/interface/rest/respond.go
package rest

import (
	"encoding/json"
	"net/http"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/pkg/logger"
)

// errorBody is the uniform error envelope: {"message": "..."}.
type errorBody struct {
	Message string `json:"message"`
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.BadRequest:
		return http.StatusBadRequest
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, log logger.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError maps the error's kind tag to an HTTP status exactly once,
// here at the boundary.
func respondError(w http.ResponseWriter, log logger.Logger, err error) {
	kind := apperr.KindOf(err)
	status := statusOf(kind)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "kind", kind.String(), "error", err)
	}
	respondJSON(w, log, status, errorBody{Message: apperr.MessageOf(err)})
}

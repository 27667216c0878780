// internal/interface/rest/tracking_handler.go
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/usecase"
	"parceltrack-service/pkg/logger"
)

// TrackingHandler serves the trackings routes
type TrackingHandler struct {
	log    *usecase.TrackingLog
	logger logger.Logger
}

// NewTrackingHandler creates the trackings handler
func NewTrackingHandler(log *usecase.TrackingLog, logger logger.Logger) *TrackingHandler {
	return &TrackingHandler{log: log, logger: logger}
}

// Append records one tracking event.
func (h *TrackingHandler) Append(w http.ResponseWriter, r *http.Request) {
	var event entity.TrackingEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}

	id, err := h.log.Append(r.Context(), &event)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"insertedId": id})
}

// History replays a parcel's journey in chronological order.
func (h *TrackingHandler) History(w http.ResponseWriter, r *http.Request) {
	events, err := h.log.History(r.Context(), mux.Vars(r)["trackingId"])
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if events == nil {
		events = []entity.TrackingEvent{}
	}

	respondJSON(w, h.logger, http.StatusOK, events)
}

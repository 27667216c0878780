// internal/interface/rest/rider_handler.go
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
	"parceltrack-service/internal/usecase"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/utils"
)

// RiderHandler serves the riders routes
type RiderHandler struct {
	riders    repository.RiderRepository
	parcels   repository.ParcelRepository
	lifecycle *usecase.DeliveryLifecycle
	logger    logger.Logger
}

// NewRiderHandler creates the riders handler
func NewRiderHandler(
	riders repository.RiderRepository,
	parcels repository.ParcelRepository,
	lifecycle *usecase.DeliveryLifecycle,
	logger logger.Logger,
) *RiderHandler {
	return &RiderHandler{riders: riders, parcels: parcels, lifecycle: lifecycle, logger: logger}
}

// Create stores a rider application in pending status.
func (h *RiderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rider entity.Rider
	if err := json.NewDecoder(r.Body).Decode(&rider); err != nil {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if rider.Email == "" {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "email is required"))
		return
	}
	if rider.District == "" {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "district is required"))
		return
	}

	rider.ID = ""
	rider.Email = utils.NormalizeEmail(rider.Email)
	rider.Status = entity.RiderStatusPending
	rider.WorkStatus = ""

	id, err := h.riders.Insert(r.Context(), &rider)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"insertedId": id})
}

// Pending lists rider applications awaiting a decision.
func (h *RiderHandler) Pending(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, entity.RiderStatusPending)
}

// Approved lists approved riders.
func (h *RiderHandler) Approved(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, entity.RiderStatusApproved)
}

func (h *RiderHandler) listByStatus(w http.ResponseWriter, r *http.Request, status string) {
	riders, err := h.riders.FindByStatus(r.Context(), status)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if riders == nil {
		riders = []entity.Rider{}
	}
	respondJSON(w, h.logger, http.StatusOK, riders)
}

// Available lists approved riders free for assignment, optionally
// narrowed to a district.
func (h *RiderHandler) Available(w http.ResponseWriter, r *http.Request) {
	riders, err := h.riders.FindAvailableByDistrict(r.Context(), r.URL.Query().Get("district"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if riders == nil {
		riders = []entity.Rider{}
	}
	respondJSON(w, h.logger, http.StatusOK, riders)
}

type riderDecisionRequest struct {
	Status string `json:"status"`
	Email  string `json:"email"`
}

// Decide approves or rejects a rider application. Approval promotes the
// matching user to the rider role.
func (h *RiderHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req riderDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.lifecycle.ApproveOrReject(r.Context(), id, req.Status, utils.NormalizeEmail(req.Email)); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "rider " + req.Status})
}

// Tasks lists a rider's active deliveries.
func (h *RiderHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	h.listAssigned(w, r, []string{entity.DeliveryStatusRiderAssigned, entity.DeliveryStatusInTransit})
}

// Completed lists a rider's finished deliveries.
func (h *RiderHandler) Completed(w http.ResponseWriter, r *http.Request) {
	h.listAssigned(w, r, []string{entity.DeliveryStatusDelivered, entity.DeliveryStatusServiceCenter})
}

func (h *RiderHandler) listAssigned(w http.ResponseWriter, r *http.Request, statuses []string) {
	email := utils.NormalizeEmail(r.URL.Query().Get("email"))
	if email == "" {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "email query is required"))
		return
	}

	parcels, err := h.parcels.Find(r.Context(), repository.ParcelFilter{
		AssignedRiderEmail: email,
		DeliveryStatusIn:   statuses,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if parcels == nil {
		parcels = []entity.Parcel{}
	}

	respondJSON(w, h.logger, http.StatusOK, parcels)
}

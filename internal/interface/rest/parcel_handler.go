// internal/interface/rest/parcel_handler.go
package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
	"parceltrack-service/internal/usecase"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/metrics"
	"parceltrack-service/pkg/utils"
)

// ParcelHandler serves the parcels routes
type ParcelHandler struct {
	parcels   repository.ParcelRepository
	lifecycle *usecase.DeliveryLifecycle
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewParcelHandler creates the parcels handler
func NewParcelHandler(
	parcels repository.ParcelRepository,
	lifecycle *usecase.DeliveryLifecycle,
	m *metrics.Metrics,
	logger logger.Logger,
) *ParcelHandler {
	return &ParcelHandler{parcels: parcels, lifecycle: lifecycle, metrics: m, logger: logger}
}

// List returns parcels filtered by creator email, payment status and
// delivery status, newest first.
func (h *ParcelHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ParcelFilter{
		CreatedBy:      utils.NormalizeEmail(q.Get("email")),
		PaymentStatus:  q.Get("payment_status"),
		DeliveryStatus: q.Get("delivery_status"),
	}

	parcels, err := h.parcels.Find(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if parcels == nil {
		parcels = []entity.Parcel{}
	}

	respondJSON(w, h.logger, http.StatusOK, parcels)
}

// Get returns one parcel by ID.
func (h *ParcelHandler) Get(w http.ResponseWriter, r *http.Request) {
	parcel, err := h.parcels.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, parcel)
}

// Create stores a new parcel with lifecycle defaults: unpaid, pending,
// stamped creation date and a generated tracking ID when none came in.
func (h *ParcelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var parcel entity.Parcel
	if err := json.NewDecoder(r.Body).Decode(&parcel); err != nil {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if parcel.CreatedBy == "" {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "created_by is required"))
		return
	}

	now := time.Now()
	parcel.ID = ""
	parcel.CreatedBy = utils.NormalizeEmail(parcel.CreatedBy)
	parcel.PaymentStatus = entity.PaymentStatusUnpaid
	parcel.DeliveryStatus = entity.DeliveryStatusPending
	parcel.CashoutStatus = ""
	parcel.CreationDate = now
	if parcel.TrackingID == "" {
		parcel.TrackingID = utils.GenerateTrackingID(now)
	}

	id, err := h.parcels.Insert(r.Context(), &parcel)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.metrics.ParcelsCreated.Inc()
	respondJSON(w, h.logger, http.StatusOK, map[string]string{
		"insertedId":  id,
		"tracking_id": parcel.TrackingID,
	})
}

// Delete removes one parcel by ID.
func (h *ParcelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.parcels.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "parcel deleted"})
}

type assignRequest struct {
	RiderID    string `json:"riderId"`
	RiderName  string `json:"riderName"`
	RiderEmail string `json:"riderEmail"`
}

// Assign puts a rider on a parcel.
func (h *ParcelHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if req.RiderID == "" {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "riderId is required"))
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.lifecycle.AssignRider(r.Context(), id, req.RiderID, req.RiderName, req.RiderEmail); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "rider assigned"})
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus advances a parcel's delivery status.
func (h *ParcelHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	if req.Status == "" {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "status is required"))
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.lifecycle.UpdateStatus(r.Context(), id, req.Status); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "status updated"})
}

// Cashout marks a delivered parcel's proceeds as paid out.
func (h *ParcelHandler) Cashout(w http.ResponseWriter, r *http.Request) {
	if err := h.lifecycle.Cashout(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "cashed out"})
}

// StatusCount serves the delivery-status dashboard aggregate.
func (h *ParcelHandler) StatusCount(w http.ResponseWriter, r *http.Request) {
	counts, err := h.parcels.CountByDeliveryStatus(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if counts == nil {
		counts = []entity.StatusCount{}
	}
	respondJSON(w, h.logger, http.StatusOK, counts)
}

// internal/interface/rest/payment_handler.go
package rest

import (
	"encoding/json"
	"net/http"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/usecase"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/utils"
)

// PaymentHandler serves the payments routes
type PaymentHandler struct {
	recorder *usecase.PaymentRecorder
	logger   logger.Logger
}

// NewPaymentHandler creates the payments handler
func NewPaymentHandler(recorder *usecase.PaymentRecorder, logger logger.Logger) *PaymentHandler {
	return &PaymentHandler{recorder: recorder, logger: logger}
}

type createIntentRequest struct {
	Amount int64 `json:"amount"`
}

// CreateIntent asks the payment provider for a card charge intent and
// hands the client secret back for the out-of-band confirmation flow.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}

	secret, err := h.recorder.CreateIntent(r.Context(), req.Amount)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"clientSecret": secret})
}

// Record stores a confirmed payment and marks its parcel paid.
func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var payment entity.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "invalid request body"))
		return
	}
	payment.Email = utils.NormalizeEmail(payment.Email)

	id, err := h.recorder.RecordPayment(r.Context(), &payment)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"insertedId": id})
}

// History lists the caller's payments, most recent first. The query
// email must match the verified token email.
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	email := utils.NormalizeEmail(r.URL.Query().Get("email"))
	if email == "" {
		respondError(w, h.logger, apperr.New(apperr.BadRequest, "email query is required"))
		return
	}

	identity, ok := IdentityFrom(r.Context())
	if !ok || utils.NormalizeEmail(identity.Email) != email {
		respondError(w, h.logger, apperr.New(apperr.Forbidden, "forbidden access"))
		return
	}

	payments, err := h.recorder.History(r.Context(), email)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if payments == nil {
		payments = []entity.Payment{}
	}

	respondJSON(w, h.logger, http.StatusOK, payments)
}

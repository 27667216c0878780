package usecase

import (
	"context"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/metrics"
)

// PaymentGateway creates a provider-side charge intent and returns the
// client secret the caller's client completes out-of-band.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64) (string, error)
}

// PaymentRecorder creates payment intents and records confirmed
// payments against parcels.
type PaymentRecorder struct {
	parcelRepo  repository.ParcelRepository
	paymentRepo repository.PaymentRepository
	gateway     PaymentGateway
	tx          repository.TxRunner
	metrics     *metrics.Metrics
	logger      logger.Logger
}

// NewPaymentRecorder creates the payment recorder
func NewPaymentRecorder(
	parcelRepo repository.ParcelRepository,
	paymentRepo repository.PaymentRepository,
	gateway PaymentGateway,
	tx repository.TxRunner,
	m *metrics.Metrics,
	logger logger.Logger,
) *PaymentRecorder {
	return &PaymentRecorder{
		parcelRepo:  parcelRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		tx:          tx,
		metrics:     m,
		logger:      logger,
	}
}

// CreateIntent delegates to the payment provider for an amount in the
// smallest currency unit.
func (p *PaymentRecorder) CreateIntent(ctx context.Context, amount int64) (string, error) {
	if amount <= 0 {
		return "", apperr.New(apperr.BadRequest, "amount must be positive")
	}
	secret, err := p.gateway.CreateIntent(ctx, amount)
	if err != nil {
		p.metrics.ErrorsCount.WithLabelValues("create_intent").Inc()
		return "", err
	}
	return secret, nil
}

// RecordPayment marks the referenced parcel paid and appends the payment
// record in one transaction. A failed insert rolls the paid mark back,
// so the parcel never shows paid without payment evidence.
func (p *PaymentRecorder) RecordPayment(ctx context.Context, payment *entity.Payment) (string, error) {
	if payment.ParcelID == "" {
		return "", apperr.New(apperr.BadRequest, "parcelId is required")
	}
	if payment.Email == "" {
		return "", apperr.New(apperr.BadRequest, "email is required")
	}

	// Fail fast on a dangling parcel reference before opening the tx.
	if _, err := p.parcelRepo.FindByID(ctx, payment.ParcelID); err != nil {
		return "", err
	}

	var paymentID string
	err := p.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := p.parcelRepo.SetPaid(ctx, payment.ParcelID); err != nil {
			return err
		}
		id, err := p.paymentRepo.Insert(ctx, payment)
		if err != nil {
			return err
		}
		paymentID = id
		return nil
	})
	if err != nil {
		p.metrics.ErrorsCount.WithLabelValues("record_payment").Inc()
		return "", err
	}

	p.metrics.PaymentsRecorded.Inc()
	p.logger.Info("Payment recorded", "parcel_id", payment.ParcelID, "amount", payment.Amount)
	return paymentID, nil
}

// History lists a customer's payments, most recent first.
func (p *PaymentRecorder) History(ctx context.Context, email string) ([]entity.Payment, error) {
	return p.paymentRepo.FindByEmail(ctx, email)
}

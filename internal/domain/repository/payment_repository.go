package repository

import (
	"context"

	"parceltrack-service/internal/domain/entity"
)

// PaymentRepository defines the interface for payment records. Payments
// are append-only; there is no update path.
type PaymentRepository interface {
	Insert(ctx context.Context, payment *entity.Payment) (string, error)
	FindByEmail(ctx context.Context, email string) ([]entity.Payment, error)
}

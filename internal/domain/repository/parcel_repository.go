package repository

import (
	"context"
	"time"

	"parceltrack-service/internal/domain/entity"
)

// ParcelFilter narrows a parcel listing. Zero-valued fields are ignored.
type ParcelFilter struct {
	CreatedBy          string
	PaymentStatus      string
	DeliveryStatus     string
	AssignedRiderEmail string
	DeliveryStatusIn   []string
}

// ParcelRepository defines the interface for parcel operations
type ParcelRepository interface {
	Insert(ctx context.Context, parcel *entity.Parcel) (string, error)
	FindByID(ctx context.Context, id string) (*entity.Parcel, error)
	Find(ctx context.Context, filter ParcelFilter) ([]entity.Parcel, error)
	Delete(ctx context.Context, id string) error

	SetAssignment(ctx context.Context, id, riderID, riderName, riderEmail string) error
	SetDeliveryStatus(ctx context.Context, id, status string, pickedAt, deliveredAt *time.Time) error
	SetCashedOut(ctx context.Context, id string, at time.Time) error
	SetPaid(ctx context.Context, id string) error

	CountByDeliveryStatus(ctx context.Context) ([]entity.StatusCount, error)
}

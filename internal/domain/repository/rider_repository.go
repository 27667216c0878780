package repository

import (
	"context"

	"parceltrack-service/internal/domain/entity"
)

// RiderRepository defines the interface for rider account operations
type RiderRepository interface {
	Insert(ctx context.Context, rider *entity.Rider) (string, error)
	FindByID(ctx context.Context, id string) (*entity.Rider, error)
	FindByStatus(ctx context.Context, status string) ([]entity.Rider, error)
	FindAvailableByDistrict(ctx context.Context, district string) ([]entity.Rider, error)
	SetStatus(ctx context.Context, id, status string) error
	SetWorkStatus(ctx context.Context, id, workStatus string) error
}

package repository

import (
	"context"
	"time"

	"parceltrack-service/internal/domain/entity"
)

// UserRepository defines the interface for user account operations
type UserRepository interface {
	Insert(ctx context.Context, user *entity.User) (string, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	SearchByEmail(ctx context.Context, fragment string) ([]entity.User, error)
	TouchLastLogIn(ctx context.Context, email string, at time.Time) error
	SetRoleByID(ctx context.Context, id, role string) error
	SetRoleByEmail(ctx context.Context, email, role string) error
}

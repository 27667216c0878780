package repository

import (
	"context"

	"parceltrack-service/internal/domain/entity"
)

// TrackingRepository defines the interface for the tracking event log.
// Append-only; history is returned in chronological order.
type TrackingRepository interface {
	Append(ctx context.Context, event *entity.TrackingEvent) (string, error)
	FindByTrackingID(ctx context.Context, trackingID string) ([]entity.TrackingEvent, error)
}

package usecase

import (
	"context"
	"time"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
	"parceltrack-service/pkg/logger"
)

// TrackingLog is the append-only per-parcel event history.
type TrackingLog struct {
	trackingRepo repository.TrackingRepository
	logger       logger.Logger
}

// NewTrackingLog creates the tracking log
func NewTrackingLog(trackingRepo repository.TrackingRepository, logger logger.Logger) *TrackingLog {
	return &TrackingLog{trackingRepo: trackingRepo, logger: logger}
}

// Append validates and stores one tracking event. The timestamp is
// always stamped server-side; whatever the client sent is ignored.
func (t *TrackingLog) Append(ctx context.Context, event *entity.TrackingEvent) (string, error) {
	if event.TrackingID == "" {
		return "", apperr.New(apperr.BadRequest, "tracking_id is required")
	}
	if event.Status == "" {
		return "", apperr.New(apperr.BadRequest, "status is required")
	}

	event.ID = ""
	event.Timestamp = time.Time{}
	id, err := t.trackingRepo.Append(ctx, event)
	if err != nil {
		return "", err
	}

	t.logger.Debug("Tracking event appended", "tracking_id", event.TrackingID, "status", event.Status)
	return id, nil
}

// History replays all events for a tracking ID in chronological order.
func (t *TrackingLog) History(ctx context.Context, trackingID string) ([]entity.TrackingEvent, error) {
	if trackingID == "" {
		return nil, apperr.New(apperr.BadRequest, "tracking_id is required")
	}
	return t.trackingRepo.FindByTrackingID(ctx, trackingID)
}

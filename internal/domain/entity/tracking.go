// internal/domain/entity/tracking.go
package entity

import (
	"time"
)

// TrackingEvent is one timestamped status update in a parcel's history.
// Events accumulate per tracking ID and are replayed in chronological order.
type TrackingEvent struct {
	ID         string    `bson:"_id,omitempty" json:"_id,omitempty"`
	TrackingID string    `bson:"tracking_id" json:"tracking_id"`
	Status     string    `bson:"status" json:"status"`
	Message    string    `bson:"message,omitempty" json:"message,omitempty"`
	UpdatedBy  string    `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}

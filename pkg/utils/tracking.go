package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateTrackingID builds a tracking identifier of the form
// TRK-20260901-ab12cd34. The random suffix keeps IDs unique without a
// store round trip.
func GenerateTrackingID(now time.Time) string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return fmt.Sprintf("TRK-%s-%s", now.Format("20060102"), hex.EncodeToString(buf))
}

// NormalizeEmail lowercases and trims an email address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TrackingMessage renders a human-readable line for a delivery status,
// used when lifecycle changes are mirrored into the tracking log.
func TrackingMessage(status, riderName string) string {
	switch status {
	case "rider_assigned":
		if riderName != "" {
			return fmt.Sprintf("Rider %s assigned to parcel", riderName)
		}
		return "Rider assigned to parcel"
	case "in_transit":
		return "Parcel picked up and in transit"
	case "delivered":
		return "Parcel delivered to receiver"
	case "service_center_delivered":
		return "Parcel delivered to service center"
	default:
		return "Parcel created"
	}
}

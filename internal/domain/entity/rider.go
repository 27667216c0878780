// internal/domain/entity/rider.go
package entity

import (
	"time"
)

// Rider application status values.
const (
	RiderStatusPending  = "pending"
	RiderStatusApproved = "approved"
	RiderStatusRejected = "rejected"
)

// Rider work status values.
const (
	WorkStatusAvailable  = "available"
	WorkStatusInDelivery = "in_delivery"
)

// Rider is a courier account responsible for delivering assigned parcels.
type Rider struct {
	ID               string    `bson:"_id,omitempty" json:"_id,omitempty"`
	Name             string    `bson:"name" json:"name"`
	Email            string    `bson:"email" json:"email"`
	Age              int       `bson:"age,omitempty" json:"age,omitempty"`
	Phone            string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Region           string    `bson:"region,omitempty" json:"region,omitempty"`
	District         string    `bson:"district" json:"district"`
	BikeBrand        string    `bson:"bike_brand,omitempty" json:"bike_brand,omitempty"`
	BikeRegistration string    `bson:"bike_registration,omitempty" json:"bike_registration,omitempty"`
	Status           string    `bson:"status" json:"status"`
	WorkStatus       string    `bson:"work_status,omitempty" json:"work_status,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

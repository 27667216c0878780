// internal/domain/entity/parcel.go
package entity

import (
	"time"
)

// Payment status values for a parcel.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Delivery status values. A parcel only moves forward through these.
const (
	DeliveryStatusPending       = "pending"
	DeliveryStatusRiderAssigned = "rider_assigned"
	DeliveryStatusInTransit     = "in_transit"
	DeliveryStatusDelivered     = "delivered"
	DeliveryStatusServiceCenter = "service_center_delivered"
)

// Cashout status values.
const (
	CashoutStatusCashedOut = "cashed_out"
)

// deliveryTransitions is the legal successor set for each delivery status.
// Anything not listed here is rejected before the write reaches the store.
var deliveryTransitions = map[string][]string{
	DeliveryStatusPending:       {DeliveryStatusRiderAssigned},
	DeliveryStatusRiderAssigned: {DeliveryStatusInTransit},
	DeliveryStatusInTransit:     {DeliveryStatusDelivered, DeliveryStatusServiceCenter},
	DeliveryStatusDelivered:     {},
	DeliveryStatusServiceCenter: {},
}

// IsDeliveryStatus reports whether s is a known delivery status.
func IsDeliveryStatus(s string) bool {
	_, ok := deliveryTransitions[s]
	return ok
}

// CanTransition reports whether a parcel may move from one delivery status
// to another.
func CanTransition(from, to string) bool {
	for _, next := range deliveryTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DeliveryCompleted reports whether the status is a terminal one.
func DeliveryCompleted(status string) bool {
	return status == DeliveryStatusDelivered || status == DeliveryStatusServiceCenter
}

// Parcel is a shipment record tracked from creation through delivery.
type Parcel struct {
	ID         string  `bson:"_id,omitempty" json:"_id,omitempty"`
	TrackingID string  `bson:"tracking_id" json:"tracking_id"`
	Title      string  `bson:"title" json:"title"`
	Type       string  `bson:"type" json:"type"`
	Weight     float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Cost       float64 `bson:"cost" json:"cost"`
	CreatedBy  string  `bson:"created_by" json:"created_by"`

	SenderName      string `bson:"sender_name,omitempty" json:"sender_name,omitempty"`
	SenderContact   string `bson:"sender_contact,omitempty" json:"sender_contact,omitempty"`
	SenderRegion    string `bson:"sender_region,omitempty" json:"sender_region,omitempty"`
	SenderCenter    string `bson:"sender_center,omitempty" json:"sender_center,omitempty"`
	SenderAddress   string `bson:"sender_address,omitempty" json:"sender_address,omitempty"`
	ReceiverName    string `bson:"receiver_name,omitempty" json:"receiver_name,omitempty"`
	ReceiverContact string `bson:"receiver_contact,omitempty" json:"receiver_contact,omitempty"`
	ReceiverRegion  string `bson:"receiver_region,omitempty" json:"receiver_region,omitempty"`
	ReceiverCenter  string `bson:"receiver_center,omitempty" json:"receiver_center,omitempty"`
	ReceiverAddress string `bson:"receiver_address,omitempty" json:"receiver_address,omitempty"`

	PaymentStatus  string `bson:"payment_status" json:"payment_status"`
	DeliveryStatus string `bson:"delivery_status" json:"delivery_status"`
	CashoutStatus  string `bson:"cashout_status,omitempty" json:"cashout_status,omitempty"`

	AssignedRiderID    string `bson:"assigned_rider_id,omitempty" json:"assigned_rider_id,omitempty"`
	AssignedRiderName  string `bson:"assigned_rider_name,omitempty" json:"assigned_rider_name,omitempty"`
	AssignedRiderEmail string `bson:"assigned_rider_email,omitempty" json:"assigned_rider_email,omitempty"`

	CreationDate time.Time  `bson:"creation_date" json:"creation_date"`
	PickedAt     *time.Time `bson:"picked_at,omitempty" json:"picked_at,omitempty"`
	DeliveredAt  *time.Time `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	CashedOutAt  *time.Time `bson:"cashed_out_at,omitempty" json:"cashed_out_at,omitempty"`
}

// StatusCount is one bucket of the delivery-status dashboard aggregation.
type StatusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

// internal/domain/entity/payment.go
package entity

import (
	"time"
)

// Payment is one completed charge for a parcel. Records are append-only,
// never updated after insert.
type Payment struct {
	ID            string    `bson:"_id,omitempty" json:"_id,omitempty"`
	ParcelID      string    `bson:"parcelId" json:"parcelId"`
	Email         string    `bson:"email" json:"email"`
	Amount        int64     `bson:"amount" json:"amount"`
	TransactionID string    `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	PaymentMethod string    `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	PaidAt        time.Time `bson:"paidAt" json:"paidAt"`
}

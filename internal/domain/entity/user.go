// internal/domain/entity/user.go
package entity

import (
	"time"
)

// User roles.
const (
	RoleUser  = "user"
	RoleRider = "rider"
	RoleAdmin = "admin"
)

// User is an account keyed by email. Created on first login and promoted
// to rider when the matching rider application is approved.
type User struct {
	ID          string    `bson:"_id,omitempty" json:"_id,omitempty"`
	Email       string    `bson:"email" json:"email"`
	DisplayName string    `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Role        string    `bson:"role" json:"role"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	LastLogIn   time.Time `bson:"last_log_in" json:"last_log_in"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mess types.
const (
	MessTypeVeg     = "VEG"
	MessTypeNonVeg  = "NON_VEG"
	MessTypeSpecial = "SPECIAL"
)

// Mess is a dining facility. It is the tenant boundary: every event and
// (transitively) every token belongs to exactly one mess.
type Mess struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Type      string             `bson:"type" json:"type"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ValidMessType reports whether t is a known mess type.
func ValidMessType(t string) bool {
	switch t {
	case MessTypeVeg, MessTypeNonVeg, MessTypeSpecial:
		return true
	}
	return false
}

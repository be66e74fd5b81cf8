package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Token statuses. UNUSED is the only non-terminal state: a token is either
// consumed at the door (USED) or swept when its event ends (EXPIRED).
const (
	TokenUnused  = "UNUSED"
	TokenUsed    = "USED"
	TokenExpired = "EXPIRED"
)

// Token is a single-use admission credential for one user and one event.
// The (user_id, event_id) pair is unique.
type Token struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"event_id"`
	Status    string             `bson:"status" json:"status"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// NewToken creates an UNUSED token that expires when its event ends.
func NewToken(userID, eventID primitive.ObjectID, eventEnd time.Time) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		EventID:   eventID,
		Status:    TokenUnused,
		ExpiresAt: eventEnd,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

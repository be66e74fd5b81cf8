package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event statuses. An event is created ACTIVE and transitions to ENDED
// exactly once; there are no other states.
const (
	EventActive = "ACTIVE"
	EventEnded  = "ENDED"
)

// Slot restricts eligibility within an event by degree and optionally by
// semester. A nil Semester matches any semester of the degree. Slots are
// embedded in their event and have no identity of their own.
type Slot struct {
	Degree    string    `bson:"degree" json:"degree"`
	Semester  *int      `bson:"semester,omitempty" json:"semester,omitempty"`
	StartTime time.Time `bson:"start_time" json:"start_time"`
	EndTime   time.Time `bson:"end_time" json:"end_time"`
}

// Event is a scheduled dining occasion for one mess. At most one event per
// mess is ACTIVE at any time. Slot order matters: the first matching slot
// wins during eligibility checks.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	MessID    primitive.ObjectID `bson:"mess_id" json:"mess_id"`
	StartTime time.Time          `bson:"start_time" json:"start_time"`
	EndTime   time.Time          `bson:"end_time" json:"end_time"`
	Status    string             `bson:"status" json:"status"`
	Slots     []Slot             `bson:"slots" json:"slots"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Expired reports whether the event's window has passed. The stored status
// may still read ACTIVE until the next resolving read corrects it.
func (e *Event) Expired(now time.Time) bool {
	return !now.Before(e.EndTime)
}

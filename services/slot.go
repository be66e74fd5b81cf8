package services

import "github.com/HarshitSharma-h8/messmate/models"

// MatchSlot returns the first slot in the event whose degree matches and
// whose semester either is unset (any semester of the degree) or equals
// the student's. Insertion order decides precedence: a semester-specific
// slot listed before a catch-all takes priority, so admins should list the
// specific slot first. Returns nil when the student is not eligible.
func MatchSlot(event *models.Event, degree string, semester int) *models.Slot {
	for i := range event.Slots {
		slot := &event.Slots[i]
		if slot.Degree != degree {
			continue
		}
		if slot.Semester == nil || *slot.Semester == semester {
			return slot
		}
	}
	return nil
}

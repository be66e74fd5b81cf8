package services

import (
	"testing"
	"time"

	"github.com/HarshitSharma-h8/messmate/models"
)

func slotEvent(slots ...models.Slot) *models.Event {
	return &models.Event{
		StartTime: baseTime,
		EndTime:   baseTime.Add(2 * time.Hour),
		Slots:     slots,
	}
}

func TestMatchSlotDegreeAndSemester(t *testing.T) {
	event := slotEvent(
		models.Slot{Degree: "CS", Semester: intPtr(3)},
		models.Slot{Degree: "EE", Semester: intPtr(5)},
	)

	if got := MatchSlot(event, "CS", 3); got == nil || got.Degree != "CS" {
		t.Fatalf("MatchSlot(CS, 3) = %v, want CS slot", got)
	}
	if got := MatchSlot(event, "CS", 4); got != nil {
		t.Fatalf("MatchSlot(CS, 4) = %v, want nil", got)
	}
	if got := MatchSlot(event, "ME", 3); got != nil {
		t.Fatalf("MatchSlot(ME, 3) = %v, want nil", got)
	}
}

func TestMatchSlotAnySemester(t *testing.T) {
	event := slotEvent(models.Slot{Degree: "CS"})

	for _, sem := range []int{1, 3, 8} {
		if got := MatchSlot(event, "CS", sem); got == nil {
			t.Errorf("MatchSlot(CS, %d) = nil, want catch-all slot", sem)
		}
	}
}

// First match wins: a semester-specific slot listed before a catch-all for
// the same degree takes precedence for that semester.
func TestMatchSlotInsertionOrderPrecedence(t *testing.T) {
	specific := models.Slot{Degree: "CS", Semester: intPtr(3), StartTime: baseTime}
	catchAll := models.Slot{Degree: "CS", StartTime: baseTime.Add(time.Hour)}
	event := slotEvent(specific, catchAll)

	got := MatchSlot(event, "CS", 3)
	if got == nil || !got.StartTime.Equal(specific.StartTime) {
		t.Fatalf("semester-specific slot should win, got %+v", got)
	}

	got = MatchSlot(event, "CS", 5)
	if got == nil || !got.StartTime.Equal(catchAll.StartTime) {
		t.Fatalf("other semesters should fall through to catch-all, got %+v", got)
	}
}

// When the catch-all is listed first it shadows the semester-specific
// slot. That is the documented contract: ordering is the admin's knob.
func TestMatchSlotCatchAllShadowsWhenFirst(t *testing.T) {
	catchAll := models.Slot{Degree: "CS", StartTime: baseTime}
	specific := models.Slot{Degree: "CS", Semester: intPtr(3), StartTime: baseTime.Add(time.Hour)}
	event := slotEvent(catchAll, specific)

	got := MatchSlot(event, "CS", 3)
	if got == nil || !got.StartTime.Equal(catchAll.StartTime) {
		t.Fatalf("catch-all listed first should win, got %+v", got)
	}
}

func TestMatchSlotNoSlots(t *testing.T) {
	if got := MatchSlot(slotEvent(), "CS", 3); got != nil {
		t.Fatalf("MatchSlot on empty slots = %v, want nil", got)
	}
}

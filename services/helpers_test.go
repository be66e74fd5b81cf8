package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/HarshitSharma-h8/messmate/models"
	"github.com/HarshitSharma-h8/messmate/store"
	"github.com/HarshitSharma-h8/messmate/utils"
)

// Fixed reference time for all service tests.
var baseTime = time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)

type fixture struct {
	store  *store.Store
	events *EventService
	tokens *TokenService
	messID primitive.ObjectID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemoryStore()
	logger := zap.NewNop()

	events := NewEventService(st, logger)
	tokens := NewTokenService(st, events, logger)

	f := &fixture{
		store:  st,
		events: events,
		tokens: tokens,
		messID: primitive.NewObjectID(),
	}
	f.setNow(baseTime)
	return f
}

func (f *fixture) setNow(now time.Time) {
	f.events.now = func() time.Time { return now }
	f.tokens.now = func() time.Time { return now }
}

// createEvent seeds an ACTIVE lunch event running baseTime..baseTime+2h
// with the given slots.
func (f *fixture) createEvent(t *testing.T, slots ...SlotInput) *models.Event {
	t.Helper()
	if len(slots) == 0 {
		slots = []SlotInput{{
			Degree:    "CS",
			Semester:  intPtr(3),
			StartTime: baseTime,
			EndTime:   baseTime.Add(time.Hour),
		}}
	}
	event, err := f.events.Create(context.Background(), f.messID, CreateEventInput{
		Title:     "Lunch",
		StartTime: baseTime,
		EndTime:   baseTime.Add(2 * time.Hour),
		Slots:     slots,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return event
}

func intPtr(v int) *int { return &v }

func assertAPIError(t *testing.T, err error, wantStatus int, wantMessage string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %d %q, got nil", wantStatus, wantMessage)
	}
	apiErr, ok := utils.AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != wantStatus {
		t.Errorf("status = %d, want %d (%v)", apiErr.StatusCode, wantStatus, apiErr)
	}
	if apiErr.Message != wantMessage {
		t.Errorf("message = %q, want %q", apiErr.Message, wantMessage)
	}
}

// Package services holds the domain logic: the event lifecycle state
// machine, slot eligibility, token issuance/verification, aggregation and
// the auth flows. Handlers stay thin and everything here is exercised
// against the store interfaces.
package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/HarshitSharma-h8/messmate/models"
	"github.com/HarshitSharma-h8/messmate/store"
	"github.com/HarshitSharma-h8/messmate/utils"
)

// EventService owns event creation and the ACTIVE→ENDED transition.
type EventService struct {
	events store.EventStore
	tokens store.TokenStore
	log    *zap.Logger
	now    func() time.Time
}

// NewEventService creates the service.
func NewEventService(st *store.Store, log *zap.Logger) *EventService {
	return &EventService{
		events: st.Events,
		tokens: st.Tokens,
		log:    log,
		now:    time.Now,
	}
}

// SlotInput is one eligibility window in a create request.
type SlotInput struct {
	Degree    string    `json:"degree"`
	Semester  *int      `json:"semester,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// CreateEventInput is the validated-by-service create payload.
type CreateEventInput struct {
	Title     string      `json:"title"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
	Slots     []SlotInput `json:"slots"`
}

// Create validates and persists a new ACTIVE event for the mess. Slot
// order is preserved: it decides precedence during matching.
func (s *EventService) Create(ctx context.Context, messID primitive.ObjectID, in CreateEventInput) (*models.Event, error) {
	if in.Title == "" || in.StartTime.IsZero() || in.EndTime.IsZero() {
		return nil, utils.ErrBadRequest("Title, startTime and endTime are required")
	}
	if !in.StartTime.Before(in.EndTime) {
		return nil, utils.ErrBadRequest("End time must be after start time")
	}

	_, err := s.events.FindActiveByMess(ctx, messID)
	switch {
	case err == nil:
		return nil, utils.ErrConflict("An active event already exists for this mess")
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	if len(in.Slots) == 0 {
		return nil, utils.ErrBadRequest("At least one slot is required")
	}

	slots := make([]models.Slot, 0, len(in.Slots))
	for _, slot := range in.Slots {
		if slot.Degree == "" || slot.StartTime.IsZero() || slot.EndTime.IsZero() {
			return nil, utils.ErrBadRequest("Each slot must contain degree, startTime and endTime")
		}
		if !slot.StartTime.Before(slot.EndTime) {
			return nil, utils.ErrBadRequest("Slot end time must be after start time")
		}
		if slot.StartTime.Before(in.StartTime) || slot.EndTime.After(in.EndTime) {
			return nil, utils.ErrBadRequest("Slot time must be inside event time window")
		}
		slots = append(slots, models.Slot{
			Degree:    slot.Degree,
			Semester:  slot.Semester,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	event := &models.Event{
		ID:        primitive.NewObjectID(),
		Title:     in.Title,
		MessID:    messID,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Status:    models.EventActive,
		Slots:     slots,
		CreatedAt: s.now().UTC(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	s.log.Info("event created",
		zap.String("event_id", event.ID.Hex()),
		zap.String("mess_id", messID.Hex()),
		zap.Time("end_time", event.EndTime),
		zap.Int("slots", len(slots)),
	)
	return event, nil
}

// ResolveActive fetches the mess's ACTIVE event and applies the lazy
// expiry correction: once the end time has passed, the event is flipped to
// ENDED and all of its UNUSED tokens are swept to EXPIRED. The (possibly
// just-ended) event is returned; nil means the mess has no active event.
//
// Expiry is evaluated here, on read, rather than by a background timer —
// an event can sit ACTIVE in storage until the next resolving call
// observes it.
func (s *EventService) ResolveActive(ctx context.Context, messID primitive.ObjectID) (*models.Event, error) {
	event, err := s.events.FindActiveByMess(ctx, messID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if event.Status == models.EventActive && event.Expired(s.now()) {
		if err := s.events.End(ctx, event.ID); err != nil {
			return nil, err
		}
		event.Status = models.EventEnded

		expired, err := s.tokens.ExpireUnused(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		s.log.Info("event expired",
			zap.String("event_id", event.ID.Hex()),
			zap.String("mess_id", messID.Hex()),
			zap.Int64("tokens_expired", expired),
		)
	}

	return event, nil
}

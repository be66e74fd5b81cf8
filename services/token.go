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

// TokenService issues and verifies admission tokens.
type TokenService struct {
	tokens store.TokenStore
	events store.EventStore
	life   *EventService
	log    *zap.Logger
	now    func() time.Time
}

// NewTokenService creates the service. It resolves events through the
// lifecycle service so every read applies the lazy expiry correction.
func NewTokenService(st *store.Store, life *EventService, log *zap.Logger) *TokenService {
	return &TokenService{
		tokens: st.Tokens,
		events: st.Events,
		life:   life,
		log:    log,
		now:    time.Now,
	}
}

// EventInfo is the event display block in token responses.
type EventInfo struct {
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// SlotInfo is the matched slot's window, shown to the student. These
// times are informational only: issuance never checks them.
type SlotInfo struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// TokenGrant is what a student gets back when issuing or fetching a token.
type TokenGrant struct {
	TokenID     string    `json:"tokenId"`
	Event       EventInfo `json:"event"`
	Slot        SlotInfo  `json:"slot"`
	Status      string    `json:"status"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// EntryConfirmation is returned on a successful verification.
type EntryConfirmation struct {
	TokenID    string    `json:"tokenId"`
	EventTitle string    `json:"eventTitle"`
	EntryTime  time.Time `json:"entryTime"`
}

// Issue creates a token for the student in their mess's active event.
// Eligibility is degree/semester only — the matched slot's own time window
// is deliberately not checked, so a student can collect a token before
// their slot opens.
func (s *TokenService) Issue(ctx context.Context, userID, messID primitive.ObjectID, degree string, semester int) (*TokenGrant, error) {
	event, err := s.life.ResolveActive(ctx, messID)
	if err != nil {
		return nil, err
	}
	if event == nil || event.Status == models.EventEnded {
		return nil, utils.ErrNotFound("No active event available")
	}

	slot := MatchSlot(event, degree, semester)
	if slot == nil {
		return nil, utils.ErrForbidden("No slot assigned for your class")
	}

	if _, err := s.tokens.FindByUserAndEvent(ctx, userID, event.ID); err == nil {
		return nil, utils.ErrConflict("Token already generated")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	token := models.NewToken(userID, event.ID, event.EndTime)
	if err := s.tokens.Create(ctx, token); err != nil {
		// Unique (user_id, event_id) index closes the check-then-create
		// race: a concurrent duplicate surfaces here.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, utils.ErrConflict("Token already generated")
		}
		return nil, err
	}

	s.log.Info("token issued",
		zap.String("token_id", token.ID.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.String("event_id", event.ID.Hex()),
	)
	return grant(token, event, slot), nil
}

// MyToken fetches the caller's token for the active event, together with
// the slot window for display.
func (s *TokenService) MyToken(ctx context.Context, userID, messID primitive.ObjectID, degree string, semester int) (*TokenGrant, error) {
	event, err := s.life.ResolveActive(ctx, messID)
	if err != nil {
		return nil, err
	}
	if event == nil || event.Status == models.EventEnded {
		return nil, utils.ErrNotFound("No active event found")
	}

	token, err := s.tokens.FindByUserAndEvent(ctx, userID, event.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, utils.ErrNotFound("No token generated yet")
	}
	if err != nil {
		return nil, err
	}

	slot := MatchSlot(event, degree, semester)
	if slot == nil {
		// A token exists but the event's slots no longer cover the
		// student; the admin edited them out from under us.
		return nil, utils.ErrBadRequest("Slot configuration error")
	}

	return grant(token, event, slot), nil
}

// Verify consumes a token at the door. Errors are classified from a plain
// read first, then the UNUSED→USED transition is committed with a single
// conditional update; if that matches nothing, a concurrent verification
// won and this one reports the token as already used. A second verify of
// the same token can therefore never be silently re-accepted.
func (s *TokenService) Verify(ctx context.Context, tokenID string, adminMessID primitive.ObjectID) (*EntryConfirmation, error) {
	id, err := primitive.ObjectIDFromHex(tokenID)
	if err != nil {
		return nil, utils.ErrBadRequest("Invalid token format")
	}

	token, err := s.tokens.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, utils.ErrNotFound("Token not found")
	}
	if err != nil {
		return nil, err
	}

	switch token.Status {
	case models.TokenUsed:
		return nil, utils.ErrConflict("Token already used")
	case models.TokenExpired:
		return nil, utils.ErrConflict("Token expired")
	}

	event, err := s.events.FindByID(ctx, token.EventID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, utils.ErrNotFound("Event not found")
	}
	if err != nil {
		return nil, err
	}

	if event.MessID != adminMessID {
		return nil, utils.ErrForbidden("Token does not belong to your mess")
	}

	// The token's own status can lag behind the event: the event may have
	// ended after the status above was written. Check the event window
	// directly as well.
	now := s.now()
	if event.Status == models.EventEnded || event.Expired(now) {
		return nil, utils.ErrConflict("Event already ended")
	}

	ok, err := s.tokens.MarkUsed(ctx, id, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.ErrConflict("Token already used")
	}

	s.log.Info("token verified",
		zap.String("token_id", id.Hex()),
		zap.String("event_id", event.ID.Hex()),
		zap.String("mess_id", adminMessID.Hex()),
	)
	return &EntryConfirmation{
		TokenID:    id.Hex(),
		EventTitle: event.Title,
		EntryTime:  now,
	}, nil
}

func grant(token *models.Token, event *models.Event, slot *models.Slot) *TokenGrant {
	return &TokenGrant{
		TokenID: token.ID.Hex(),
		Event: EventInfo{
			Title: event.Title,
			Date:  event.StartTime,
		},
		Slot: SlotInfo{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		},
		Status:      token.Status,
		GeneratedAt: token.CreatedAt,
	}
}

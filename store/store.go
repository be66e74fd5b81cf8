// Package store abstracts persistence for the mess, user, event and token
// collections. Services only see these interfaces; the Mongo implementation
// is the production backend and the memory implementation backs tests and
// local development.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshitSharma-h8/messmate/models"
)

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a write violates a uniqueness rule.
	ErrDuplicate = errors.New("store: duplicate")
)

// MessStore persists messes.
type MessStore interface {
	Create(ctx context.Context, m *models.Mess) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Mess, error)
	FindByName(ctx context.Context, name string) (*models.Mess, error)
}

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByEmailOrRegister matches either unique field; used by
	// registration to reject duplicates with one query.
	FindByEmailOrRegister(ctx context.Context, email, registerNumber string) (*models.User, error)
	// FindByResetToken matches a stored reset-token hash that has not
	// expired as of now.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
}

// EventStore persists events.
type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	FindActiveByMess(ctx context.Context, messID primitive.ObjectID) (*models.Event, error)
	// FindLatestEndedByMess returns the ENDED event with the greatest
	// endTime, for post-event review.
	FindLatestEndedByMess(ctx context.Context, messID primitive.ObjectID) (*models.Event, error)
	// End flips an ACTIVE event to ENDED. Ending an already-ended event
	// is a no-op.
	End(ctx context.Context, id primitive.ObjectID) error
}

// TokenStore persists admission tokens.
type TokenStore interface {
	// Create inserts a token; ErrDuplicate if the (user, event) pair
	// already has one.
	Create(ctx context.Context, t *models.Token) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Token, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID primitive.ObjectID) (*models.Token, error)
	// MarkUsed performs the conditional UNUSED→USED transition in a
	// single document update. It reports false when the token was not
	// UNUSED anymore, which callers surface as a conflict; this is what
	// makes double-verification safe under concurrency.
	MarkUsed(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
	// ExpireUnused flips every UNUSED token of an event to EXPIRED and
	// returns how many were affected.
	ExpireUnused(ctx context.Context, eventID primitive.ObjectID) (int64, error)
	// CountByStatus counts an event's tokens with the given status; an
	// empty status counts all of them.
	CountByStatus(ctx context.Context, eventID primitive.ObjectID, status string) (int64, error)
	// FindUsedByEvent returns USED tokens ordered by most recent update
	// first (i.e. most recent entry first).
	FindUsedByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Token, error)
}

// Store bundles the per-entity stores for wiring.
type Store struct {
	Messes MessStore
	Users  UserStore
	Events EventStore
	Tokens TokenStore
}

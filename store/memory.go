package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshitSharma-h8/messmate/models"
)

// NewMemoryStore returns a Store backed by in-process maps. It mirrors the
// Mongo implementation's semantics, including the uniqueness rules and the
// conditional MarkUsed update, so service tests exercise the same state
// machine the production store does.
func NewMemoryStore() *Store {
	m := &memory{
		messes: map[primitive.ObjectID]models.Mess{},
		users:  map[primitive.ObjectID]models.User{},
		events: map[primitive.ObjectID]models.Event{},
		tokens: map[primitive.ObjectID]models.Token{},
	}
	return &Store{
		Messes: (*memMessStore)(m),
		Users:  (*memUserStore)(m),
		Events: (*memEventStore)(m),
		Tokens: (*memTokenStore)(m),
	}
}

type memory struct {
	mu     sync.Mutex
	messes map[primitive.ObjectID]models.Mess
	users  map[primitive.ObjectID]models.User
	events map[primitive.ObjectID]models.Event
	tokens map[primitive.ObjectID]models.Token
}

// ---- messes ----

type memMessStore memory

func (s *memMessStore) Create(_ context.Context, m *models.Mess) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.messes {
		if existing.Name == m.Name {
			return ErrDuplicate
		}
	}
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	s.messes[m.ID] = *m
	return nil
}

func (s *memMessStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Mess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.messes[id]; ok {
		out := m
		return &out, nil
	}
	return nil, ErrNotFound
}

func (s *memMessStore) FindByName(_ context.Context, name string) (*models.Mess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messes {
		if m.Name == name {
			out := m
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// ---- users ----

type memUserStore memory

func (s *memUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email || existing.RegisterNumber == u.RegisterNumber {
			return ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *memUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		out := u
		return &out, nil
	}
	return nil, ErrNotFound
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *memUserStore) FindByEmailOrRegister(_ context.Context, email, registerNumber string) (*models.User, error) {
	return s.find(func(u models.User) bool {
		return u.Email == email || u.RegisterNumber == registerNumber
	})
}

func (s *memUserStore) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return s.find(func(u models.User) bool {
		return u.ResetTokenHash == tokenHash && u.ResetTokenExpiry.After(now)
	})
}

func (s *memUserStore) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = *u
	return nil
}

func (s *memUserStore) find(match func(models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// ---- events ----

type memEventStore memory

func (s *memEventStore) Create(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	s.events[e.ID] = *e
	return nil
}

func (s *memEventStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[id]; ok {
		out := e
		return &out, nil
	}
	return nil, ErrNotFound
}

func (s *memEventStore) FindActiveByMess(_ context.Context, messID primitive.ObjectID) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.MessID == messID && e.Status == models.EventActive {
			out := e
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memEventStore) FindLatestEndedByMess(_ context.Context, messID primitive.ObjectID) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.Event
	for _, e := range s.events {
		if e.MessID != messID || e.Status != models.EventEnded {
			continue
		}
		e := e
		if latest == nil || e.EndTime.After(latest.EndTime) {
			latest = &e
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (s *memEventStore) End(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok || e.Status != models.EventActive {
		return nil
	}
	e.Status = models.EventEnded
	e.UpdatedAt = time.Now().UTC()
	s.events[id] = e
	return nil
}

// ---- tokens ----

type memTokenStore memory

func (s *memTokenStore) Create(_ context.Context, t *models.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tokens {
		if existing.UserID == t.UserID && existing.EventID == t.EventID {
			return ErrDuplicate
		}
	}
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	s.tokens[t.ID] = *t
	return nil
}

func (s *memTokenStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tokens[id]; ok {
		out := t
		return &out, nil
	}
	return nil, ErrNotFound
}

func (s *memTokenStore) FindByUserAndEvent(_ context.Context, userID, eventID primitive.ObjectID) (*models.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.UserID == userID && t.EventID == eventID {
			out := t
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memTokenStore) MarkUsed(_ context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[id]
	if !ok || t.Status != models.TokenUnused {
		return false, nil
	}
	t.Status = models.TokenUsed
	t.UpdatedAt = at
	s.tokens[id] = t
	return true, nil
}

func (s *memTokenStore) ExpireUnused(_ context.Context, eventID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	now := time.Now().UTC()
	for id, t := range s.tokens {
		if t.EventID == eventID && t.Status == models.TokenUnused {
			t.Status = models.TokenExpired
			t.UpdatedAt = now
			s.tokens[id] = t
			n++
		}
	}
	return n, nil
}

func (s *memTokenStore) CountByStatus(_ context.Context, eventID primitive.ObjectID, status string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, t := range s.tokens {
		if t.EventID == eventID && (status == "" || t.Status == status) {
			n++
		}
	}
	return n, nil
}

func (s *memTokenStore) FindUsedByEvent(_ context.Context, eventID primitive.ObjectID) ([]models.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens := []models.Token{}
	for _, t := range s.tokens {
		if t.EventID == eventID && t.Status == models.TokenUsed {
			tokens = append(tokens, t)
		}
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].UpdatedAt.After(tokens[j].UpdatedAt)
	})
	return tokens, nil
}

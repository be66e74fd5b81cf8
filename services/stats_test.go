package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/HarshitSharma-h8/messmate/models"
)

func newStatsService(f *fixture, cache *redis.Client, ttl time.Duration) *StatsService {
	return NewStatsService(f.store, f.events, cache, ttl, zap.NewNop())
}

func seedToken(t *testing.T, f *fixture, eventID primitive.ObjectID, status string, usedAt time.Time) *models.Token {
	t.Helper()
	tok := models.NewToken(primitive.NewObjectID(), eventID, baseTime.Add(2*time.Hour))
	tok.Status = status
	tok.UpdatedAt = usedAt
	if err := f.store.Tokens.Create(context.Background(), tok); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	return tok
}

func TestEventStatsCounts(t *testing.T) {
	f := newFixture(t)
	event := f.createEvent(t)
	stats := newStatsService(f, nil, 0)

	seedToken(t, f, event.ID, models.TokenUsed, baseTime)
	seedToken(t, f, event.ID, models.TokenUsed, baseTime)
	seedToken(t, f, event.ID, models.TokenUnused, baseTime)
	seedToken(t, f, event.ID, models.TokenExpired, baseTime)

	got, err := stats.EventStats(context.Background(), f.messID)
	if err != nil {
		t.Fatalf("event stats: %v", err)
	}
	want := TokenCounts{Total: 4, Used: 2, Unused: 1, Expired: 1}
	if got.Stats != want {
		t.Errorf("stats = %+v, want %+v", got.Stats, want)
	}
	if got.Event.ID != event.ID.Hex() {
		t.Errorf("event id = %s, want %s", got.Event.ID, event.ID.Hex())
	}
}

func TestEventStatsNoActiveEvent(t *testing.T) {
	f := newFixture(t)
	stats := newStatsService(f, nil, 0)

	_, err := stats.EventStats(context.Background(), f.messID)
	assertAPIError(t, err, http.StatusNotFound, "No active event found")
}

func TestEventStatsEndedEvent(t *testing.T) {
	f := newFixture(t)
	f.createEvent(t)
	f.setNow(baseTime.Add(3 * time.Hour))
	stats := newStatsService(f, nil, 0)

	_, err := stats.EventStats(context.Background(), f.messID)
	assertAPIError(t, err, http.StatusNotFound, "No active event found")
}

func TestEventStatsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	f := newFixture(t)
	event := f.createEvent(t)
	stats := newStatsService(f, cache, 5*time.Second)
	ctx := context.Background()

	seedToken(t, f, event.ID, models.TokenUnused, baseTime)

	first, err := stats.EventStats(ctx, f.messID)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if first.Stats.Total != 1 {
		t.Fatalf("first total = %d, want 1", first.Stats.Total)
	}

	// Another token lands, but within the TTL the cached counts win.
	seedToken(t, f, event.ID, models.TokenUnused, baseTime)
	second, err := stats.EventStats(ctx, f.messID)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if second.Stats.Total != 1 {
		t.Errorf("cached total = %d, want 1 (stale within TTL)", second.Stats.Total)
	}

	// Past the TTL the fresh counts come through.
	mr.FastForward(6 * time.Second)
	third, err := stats.EventStats(ctx, f.messID)
	if err != nil {
		t.Fatalf("third read: %v", err)
	}
	if third.Stats.Total != 2 {
		t.Errorf("post-TTL total = %d, want 2", third.Stats.Total)
	}
}

func TestLiveEntriesOrdering(t *testing.T) {
	f := newFixture(t)
	event := f.createEvent(t)
	stats := newStatsService(f, nil, 0)
	ctx := context.Background()

	student, err := models.NewStudent("Anu", "21CS042", "anu@example.com", "9000000001", "x", models.GenderFemale, f.messID, "CS", 3)
	if err != nil {
		t.Fatalf("new student: %v", err)
	}
	if err := f.store.Users.Create(ctx, student); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	early := models.NewToken(student.ID, event.ID, event.EndTime)
	early.Status = models.TokenUsed
	early.UpdatedAt = baseTime.Add(10 * time.Minute)
	late := models.NewToken(primitive.NewObjectID(), event.ID, event.EndTime)
	late.Status = models.TokenUsed
	late.UpdatedAt = baseTime.Add(40 * time.Minute)
	seedToken(t, f, event.ID, models.TokenUnused, baseTime) // not an entry
	for _, tok := range []*models.Token{early, late} {
		if err := f.store.Tokens.Create(ctx, tok); err != nil {
			t.Fatalf("seed token: %v", err)
		}
	}

	got, err := stats.LiveEntries(ctx, f.messID)
	if err != nil {
		t.Fatalf("live entries: %v", err)
	}
	if got.TotalEntries != 2 {
		t.Fatalf("total entries = %d, want 2", got.TotalEntries)
	}
	if got.Entries[0].TokenID != late.ID.Hex() {
		t.Errorf("most recent entry first: got %s, want %s", got.Entries[0].TokenID, late.ID.Hex())
	}
	if got.Entries[1].Student.RegisterNumber != "21CS042" {
		t.Errorf("student display fields missing: %+v", got.Entries[1].Student)
	}
}

func TestLiveEntriesFallsBackToEndedEvent(t *testing.T) {
	f := newFixture(t)
	event := f.createEvent(t)
	stats := newStatsService(f, nil, 0)
	ctx := context.Background()

	used := models.NewToken(primitive.NewObjectID(), event.ID, event.EndTime)
	used.Status = models.TokenUsed
	used.UpdatedAt = baseTime.Add(20 * time.Minute)
	if err := f.store.Tokens.Create(ctx, used); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	// After the event ends, the entries endpoint still serves it for
	// post-event review.
	f.setNow(baseTime.Add(3 * time.Hour))
	got, err := stats.LiveEntries(ctx, f.messID)
	if err != nil {
		t.Fatalf("live entries after end: %v", err)
	}
	if got.Event.ID != event.ID.Hex() {
		t.Errorf("event id = %s, want ended event %s", got.Event.ID, event.ID.Hex())
	}
	if got.TotalEntries != 1 {
		t.Errorf("total entries = %d, want 1", got.TotalEntries)
	}
}

func TestLiveEntriesNoEvent(t *testing.T) {
	f := newFixture(t)
	stats := newStatsService(f, nil, 0)

	_, err := stats.LiveEntries(context.Background(), f.messID)
	assertAPIError(t, err, http.StatusNotFound, "No event found")
}

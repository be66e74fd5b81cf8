package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/HarshitSharma-h8/messmate/models"
	"github.com/HarshitSharma-h8/messmate/store"
	"github.com/HarshitSharma-h8/messmate/utils"
)

// StatsService serves the admin dashboard reads: token counts for the
// active event and the live entry feed. Both are pure reads.
type StatsService struct {
	tokens   store.TokenStore
	events   store.EventStore
	users    store.UserStore
	life     *EventService
	cache    *redis.Client
	cacheTTL time.Duration
	log      *zap.Logger
}

// NewStatsService creates the service. cache may be nil, which disables
// the stats cache entirely.
func NewStatsService(st *store.Store, life *EventService, cache *redis.Client, cacheTTL time.Duration, log *zap.Logger) *StatsService {
	return &StatsService{
		tokens:   st.Tokens,
		events:   st.Events,
		users:    st.Users,
		life:     life,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// EventSummary is the event display block in admin responses.
type EventSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

// TokenCounts breaks an event's tokens down by status.
type TokenCounts struct {
	Total   int64 `json:"totalTokens"`
	Used    int64 `json:"usedTokens"`
	Unused  int64 `json:"unusedTokens"`
	Expired int64 `json:"expiredTokens"`
}

// EventStats is the event-stats response payload.
type EventStats struct {
	Event EventSummary `json:"event"`
	Stats TokenCounts  `json:"stats"`
}

// Entry is one admitted student in the live feed.
type Entry struct {
	TokenID   string      `json:"tokenId"`
	Student   StudentInfo `json:"student"`
	EntryTime time.Time   `json:"entryTime"`
}

// StudentInfo is the user display subset shown per entry.
type StudentInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	RegisterNumber string `json:"register_number"`
	Degree         string `json:"degree,omitempty"`
	Semester       int    `json:"semester,omitempty"`
}

// LiveEntries is the entries response payload.
type LiveEntries struct {
	Event        EventSummary `json:"event"`
	TotalEntries int          `json:"totalEntries"`
	Entries      []Entry      `json:"entries"`
}

// EventStats aggregates token counts for the mess's active event. Results
// are cached briefly in redis since dashboards poll this endpoint.
func (s *StatsService) EventStats(ctx context.Context, messID primitive.ObjectID) (*EventStats, error) {
	event, err := s.life.ResolveActive(ctx, messID)
	if err != nil {
		return nil, err
	}
	if event == nil || event.Status == models.EventEnded {
		return nil, utils.ErrNotFound("No active event found")
	}

	cacheKey := "stats:" + event.ID.Hex()
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	counts := TokenCounts{}
	pairs := []struct {
		status string
		dst    *int64
	}{
		{"", &counts.Total},
		{models.TokenUsed, &counts.Used},
		{models.TokenUnused, &counts.Unused},
		{models.TokenExpired, &counts.Expired},
	}
	for _, p := range pairs {
		n, err := s.tokens.CountByStatus(ctx, event.ID, p.status)
		if err != nil {
			return nil, err
		}
		*p.dst = n
	}

	stats := &EventStats{
		Event: EventSummary{
			ID:        event.ID.Hex(),
			Title:     event.Title,
			StartTime: event.StartTime,
			EndTime:   event.EndTime,
		},
		Stats: counts,
	}
	s.toCache(ctx, cacheKey, stats)
	return stats, nil
}

// LiveEntries lists the USED tokens (admissions) for the mess's active
// event, most recent first. When no event is active it falls back to the
// most recently ended one — the single place a non-active event is served,
// so admins can review an event right after it closes.
func (s *StatsService) LiveEntries(ctx context.Context, messID primitive.ObjectID) (*LiveEntries, error) {
	event, err := s.life.ResolveActive(ctx, messID)
	if err != nil {
		return nil, err
	}
	if event == nil || event.Status == models.EventEnded {
		event, err = s.events.FindLatestEndedByMess(ctx, messID)
		if err != nil {
			return nil, utils.ErrNotFound("No event found")
		}
	}

	tokens, err := s.tokens.FindUsedByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(tokens))
	for _, token := range tokens {
		entry := Entry{
			TokenID:   token.ID.Hex(),
			EntryTime: token.UpdatedAt,
		}
		if user, err := s.users.FindByID(ctx, token.UserID); err == nil {
			entry.Student = StudentInfo{
				ID:             user.ID.Hex(),
				Name:           user.Name,
				RegisterNumber: user.RegisterNumber,
				Degree:         user.Degree(),
				Semester:       user.Semester(),
			}
		}
		entries = append(entries, entry)
	}

	return &LiveEntries{
		Event: EventSummary{
			ID:    event.ID.Hex(),
			Title: event.Title,
		},
		TotalEntries: len(entries),
		Entries:      entries,
	}, nil
}

func (s *StatsService) fromCache(ctx context.Context, key string) *EventStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var stats EventStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *StatsService) toCache(ctx context.Context, key string, stats *EventStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.log.Debug("stats cache write failed", zap.Error(err))
	}
}

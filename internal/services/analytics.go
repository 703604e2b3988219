package services

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/drawtunes/drawtunes-api/internal/store"
)

const (
	statsCacheKey = "analytics:stats"
	statsCacheTTL = 30 * time.Second

	activeUserWindow = 30 * 24 * time.Hour
)

// DrawingStats aggregates drawing counts
type DrawingStats struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

// MusicStats aggregates generation counts and engagement
type MusicStats struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
	AverageRating  float64 `json:"average_rating"`
	TotalPlays     int64   `json:"total_plays"`
}

// UserStats aggregates user counts
type UserStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// Stats is the full analytics snapshot
type Stats struct {
	Drawings DrawingStats `json:"drawings"`
	Music    MusicStats   `json:"music"`
	Users    UserStats    `json:"users"`
}

// DailyStat is one day's activity counts
type DailyStat struct {
	Drawings         int `json:"drawings"`
	MusicGenerations int `json:"music_generations"`
	Plays            int `json:"plays"`
}

// Trends is per-day activity over a period, keyed by ISO date
type Trends struct {
	PeriodDays int                  `json:"period_days"`
	DailyStats map[string]DailyStat `json:"daily_stats"`
}

// AnalyticsService aggregates usage statistics across the stores
type AnalyticsService struct {
	drawings    store.DrawingStore
	generations store.GenerationStore
	users       store.UserStore
	cache       *gocache.Cache
	now         func() time.Time
}

// NewAnalyticsService creates an analytics service
func NewAnalyticsService(drawings store.DrawingStore, generations store.GenerationStore, users store.UserStore) *AnalyticsService {
	return &AnalyticsService{
		drawings:    drawings,
		generations: generations,
		users:       users,
		cache:       gocache.New(statsCacheTTL, statsCacheTTL),
		now:         time.Now,
	}
}

// Stats returns the analytics snapshot, cached briefly. The underlying
// counts run concurrently.
func (s *AnalyticsService) Stats(ctx context.Context) (*Stats, error) {
	if cached, found := s.cache.Get(statsCacheKey); found {
		return cached.(*Stats), nil
	}

	var stats Stats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Drawings.Total, err = s.drawings.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Drawings.Completed, err = s.drawings.CountByStatus(gctx, models.DrawingStatusCompleted)
		return err
	})
	g.Go(func() (err error) {
		stats.Music.Total, err = s.generations.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Music.Completed, err = s.generations.CountByStatus(gctx, models.MusicStatusCompleted)
		return err
	})
	g.Go(func() (err error) {
		stats.Music.AverageRating, err = s.generations.AverageRating(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Music.TotalPlays, err = s.generations.TotalPlayCount(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Users.Total, err = s.users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Users.Active, err = s.users.CountActiveSince(gctx, s.now().Add(-activeUserWindow))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if stats.Drawings.Total > 0 {
		stats.Drawings.CompletionRate = float64(stats.Drawings.Completed) / float64(stats.Drawings.Total)
	}
	if stats.Music.Total > 0 {
		stats.Music.CompletionRate = float64(stats.Music.Completed) / float64(stats.Music.Total)
	}

	s.cache.Set(statsCacheKey, &stats, gocache.DefaultExpiration)
	return &stats, nil
}

// Trends returns per-day drawing and generation activity for the trailing
// period. Days outside the period are excluded; days without activity are
// present with zero counts.
func (s *AnalyticsService) Trends(ctx context.Context, days int) (*Trends, error) {
	if days < 1 {
		days = 7
	}

	end := s.now().UTC()
	start := end.AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	daily := make(map[string]DailyStat, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		daily[date] = DailyStat{}
	}

	drawings, err := s.drawings.CreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, d := range drawings {
		date := d.CreatedAt.UTC().Format("2006-01-02")
		if stat, ok := daily[date]; ok {
			stat.Drawings++
			daily[date] = stat
		}
	}

	gens, err := s.generations.CreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, g := range gens {
		date := g.CreatedAt.UTC().Format("2006-01-02")
		if stat, ok := daily[date]; ok {
			stat.MusicGenerations++
			stat.Plays += g.PlayCount
			daily[date] = stat
		}
	}

	return &Trends{PeriodDays: days, DailyStats: daily}, nil
}

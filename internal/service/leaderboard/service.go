package leaderboard

import (
	"context"
	"sort"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
)

type StatsRepo interface {
	// DriverStats returns one aggregate row per driver account.
	DriverStats(ctx context.Context) ([]models.DriverStats, error)

	// PlatformTotals returns the platform-wide counters.
	PlatformTotals(ctx context.Context) (*models.PlatformTotals, error)
}

// DefaultLimit caps the ranking when neither the config nor the caller
// sets one.
const DefaultLimit = 10

type LeaderboardService struct {
	stats StatsRepo
	limit int
	l     logger.Logger
}

func NewLeaderboardService(stats StatsRepo, limit int, l logger.Logger) *LeaderboardService {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &LeaderboardService{stats: stats, limit: limit, l: l}
}

// TopDrivers returns the top drivers ranked by completed bookings, average
// rating breaking ties. Drivers without reviews rank as if rated zero.
// A non-positive limit falls back to the configured one.
func (s *LeaderboardService) TopDrivers(ctx context.Context, limit int) ([]models.DriverStats, error) {
	ctx = wrap.WithAction(ctx, "leaderboard_top_drivers")

	if limit <= 0 {
		limit = s.limit
	}

	stats, err := s.stats.DriverStats(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalCompleted != stats[j].TotalCompleted {
			return stats[i].TotalCompleted > stats[j].TotalCompleted
		}
		return ratingOrZero(stats[i].AvgRating) > ratingOrZero(stats[j].AvgRating)
	})
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

// Overview returns the platform-wide totals shown next to the ranking.
func (s *LeaderboardService) Overview(ctx context.Context) (*models.PlatformTotals, error) {
	ctx = wrap.WithAction(ctx, "leaderboard_overview")

	totals, err := s.stats.PlatformTotals(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return totals, nil
}

func ratingOrZero(r *float64) float64 {
	if r == nil {
		return 0
	}
	return *r
}

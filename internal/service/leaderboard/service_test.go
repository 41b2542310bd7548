package leaderboard

import (
	"context"
	"errors"
	"testing"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
)

type fakeStatsRepo struct {
	stats  []models.DriverStats
	totals *models.PlatformTotals
	err    error
}

func (f *fakeStatsRepo) DriverStats(ctx context.Context) ([]models.DriverStats, error) {
	return f.stats, f.err
}

func (f *fakeStatsRepo) PlatformTotals(ctx context.Context) (*models.PlatformTotals, error) {
	return f.totals, f.err
}

func rating(v float64) *float64 { return &v }

func newTestService(repo *fakeStatsRepo) *LeaderboardService {
	return NewLeaderboardService(repo, 0, logger.InitLogger("leaderboard-test", logger.LevelError))
}

func TestTopDrivers_RanksByCompletedThenRating(t *testing.T) {
	repo := &fakeStatsRepo{stats: []models.DriverStats{
		{FullName: "few rides, great rating", TotalCompleted: 2, AvgRating: rating(5)},
		{FullName: "many rides, ok rating", TotalCompleted: 10, AvgRating: rating(3.5)},
		{FullName: "many rides, great rating", TotalCompleted: 10, AvgRating: rating(4.9)},
	}}
	svc := newTestService(repo)

	got, err := svc.TopDrivers(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"many rides, great rating",
		"many rides, ok rating",
		"few rides, great rating",
	}
	for i := range want {
		if got[i].FullName != want[i] {
			t.Fatalf("position %d: got %q want %q", i, got[i].FullName, want[i])
		}
	}
}

func TestTopDrivers_UnratedRanksAsZero(t *testing.T) {
	repo := &fakeStatsRepo{stats: []models.DriverStats{
		{FullName: "unrated", TotalCompleted: 5, AvgRating: nil},
		{FullName: "rated", TotalCompleted: 5, AvgRating: rating(1)},
	}}
	svc := newTestService(repo)

	got, err := svc.TopDrivers(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].FullName != "rated" || got[1].FullName != "unrated" {
		t.Fatalf("any rating must beat no rating: %q then %q", got[0].FullName, got[1].FullName)
	}
}

func TestTopDrivers_StableForTies(t *testing.T) {
	repo := &fakeStatsRepo{stats: []models.DriverStats{
		{FullName: "first", TotalCompleted: 3, AvgRating: rating(4)},
		{FullName: "second", TotalCompleted: 3, AvgRating: rating(4)},
	}}
	svc := newTestService(repo)

	got, err := svc.TopDrivers(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].FullName != "first" {
		t.Fatal("ties must keep input order")
	}
}

func TestTopDrivers_RepoError(t *testing.T) {
	svc := newTestService(&fakeStatsRepo{err: errors.New("db down")})

	if _, err := svc.TopDrivers(context.Background(), 0); err == nil {
		t.Fatal("expected error from repository")
	}
}

func TestTopDrivers_TruncatesToDefaultLimit(t *testing.T) {
	repo := &fakeStatsRepo{}
	for i := 0; i < 25; i++ {
		repo.stats = append(repo.stats, models.DriverStats{
			FullName:       "driver",
			TotalCompleted: i,
		})
	}
	svc := newTestService(repo)

	got, err := svc.TopDrivers(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != DefaultLimit {
		t.Fatalf("got %d entries, want %d", len(got), DefaultLimit)
	}
	// Truncation happens after the sort, so the top entry survives.
	if got[0].TotalCompleted != 24 {
		t.Fatalf("best driver must survive the cut, got %d completed", got[0].TotalCompleted)
	}
}

func TestTopDrivers_CallerLimitOverridesConfigured(t *testing.T) {
	repo := &fakeStatsRepo{stats: []models.DriverStats{
		{FullName: "a", TotalCompleted: 3},
		{FullName: "b", TotalCompleted: 2},
		{FullName: "c", TotalCompleted: 1},
	}}
	svc := NewLeaderboardService(repo, 2, logger.InitLogger("leaderboard-test", logger.LevelError))

	got, err := svc.TopDrivers(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("configured limit: got %d entries, want 2", len(got))
	}

	got, err = svc.TopDrivers(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].FullName != "a" {
		t.Fatalf("caller limit: got %+v, want just %q", got, "a")
	}
}

func TestOverview(t *testing.T) {
	repo := &fakeStatsRepo{totals: &models.PlatformTotals{
		TotalDrivers:        7,
		TotalCompletedRides: 42,
		AvgRating:           rating(4.2),
	}}
	svc := newTestService(repo)

	got, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalDrivers != 7 || got.TotalCompletedRides != 42 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

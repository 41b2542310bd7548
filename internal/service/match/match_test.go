package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type fakeDriverRepo struct {
	candidates []models.DriverCandidate
	err        error
}

func (f *fakeDriverRepo) ListCandidates(ctx context.Context) ([]models.DriverCandidate, error) {
	return f.candidates, f.err
}

type fakeRideRepo struct {
	rides []models.RideRequest
	err   error
}

func (f *fakeRideRepo) ListOpenWithPickup(ctx context.Context) ([]models.RideRequest, error) {
	return f.rides, f.err
}

func testLogger() logger.Logger {
	return logger.InitLogger("match-test", logger.LevelError)
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.New()
	if err != nil {
		t.Fatalf("failed to create uuid: %v", err)
	}
	return id
}

func candidateAt(t *testing.T, name string, lat, lon float64, created time.Time) models.DriverCandidate {
	t.Helper()
	return models.DriverCandidate{
		UserID:    mustUUID(t),
		FullName:  name,
		Location:  &models.Coordinates{Latitude: lat, Longitude: lon},
		CreatedAt: created,
	}
}

func TestNearbyDrivers_SortsByDistance(t *testing.T) {
	now := time.Now()
	repo := &fakeDriverRepo{candidates: []models.DriverCandidate{
		candidateAt(t, "far", 1.0, 0, now),
		candidateAt(t, "near", 0.01, 0, now),
		candidateAt(t, "mid", 0.5, 0, now),
	}}
	svc := New(repo, &fakeRideRepo{}, 200, 10, testLogger())

	origin := &models.Coordinates{Latitude: 0, Longitude: 0}
	got, err := svc.NearbyDrivers(context.Background(), origin, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var names []string
	for _, m := range got {
		names = append(names, m.FullName)
	}
	want := []string{"near", "mid", "far"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("wrong order: got %v want %v", names, want)
		}
	}
	if got[0].DistanceKm == nil || *got[0].DistanceKm <= 0 {
		t.Fatal("matches must carry a positive distance annotation")
	}
}

func TestNearbyDrivers_RadiusFiltersAndLimits(t *testing.T) {
	now := time.Now()
	repo := &fakeDriverRepo{candidates: []models.DriverCandidate{
		candidateAt(t, "a", 0.01, 0, now),
		candidateAt(t, "b", 0.02, 0, now),
		candidateAt(t, "c", 0.03, 0, now),
		candidateAt(t, "outside", 5, 0, now),
	}}
	svc := New(repo, &fakeRideRepo{}, 10, 10, testLogger())

	origin := &models.Coordinates{Latitude: 0, Longitude: 0}
	got, err := svc.NearbyDrivers(context.Background(), origin, 10, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
	for _, m := range got {
		if m.FullName == "outside" {
			t.Fatal("driver outside the radius must be filtered out")
		}
	}
}

func TestNearbyDrivers_FallbackWhenRadiusEmpty(t *testing.T) {
	now := time.Now()
	repo := &fakeDriverRepo{candidates: []models.DriverCandidate{
		candidateAt(t, "distant", 50, 0, now),
	}}
	svc := New(repo, &fakeRideRepo{}, 10, 10, testLogger())

	origin := &models.Coordinates{Latitude: 0, Longitude: 0}
	got, err := svc.NearbyDrivers(context.Background(), origin, 10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].FullName != "distant" {
		t.Fatalf("expected the distant driver via fallback, got %v", got)
	}
}

func TestNearbyDrivers_UnknownOrigin(t *testing.T) {
	now := time.Now()
	repo := &fakeDriverRepo{candidates: []models.DriverCandidate{
		candidateAt(t, "first", 1, 1, now),
		candidateAt(t, "second", 2, 2, now.Add(time.Minute)),
	}}
	svc := New(repo, &fakeRideRepo{}, 10, 10, testLogger())

	got, err := svc.NearbyDrivers(context.Background(), nil, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].FullName != "first" {
		t.Fatalf("unknown origin must keep creation order, got %q", got[0].FullName)
	}
	if got[0].DistanceKm != nil {
		t.Fatal("distance must be nil when the origin is unknown")
	}
}

func TestNearbyDrivers_RepoError(t *testing.T) {
	repo := &fakeDriverRepo{err: errors.New("db down")}
	svc := New(repo, &fakeRideRepo{}, 10, 10, testLogger())

	origin := &models.Coordinates{Latitude: 0, Longitude: 0}
	if _, err := svc.NearbyDrivers(context.Background(), origin, 0, 0); err == nil {
		t.Fatal("expected error from repository")
	}
}

func rideAt(t *testing.T, pickup string, lat, lon float64) models.RideRequest {
	t.Helper()
	return models.RideRequest{
		ID:             mustUUID(t),
		CustomerID:     mustUUID(t),
		Pickup:         pickup,
		Dropoff:        "downtown",
		PickupLocation: &models.Coordinates{Latitude: lat, Longitude: lon},
		Status:         types.RidePending,
	}
}

func TestNearbyRides_NoFallbackOutsideRadius(t *testing.T) {
	repo := &fakeRideRepo{rides: []models.RideRequest{
		rideAt(t, "far away", 50, 0),
	}}
	svc := New(&fakeDriverRepo{}, repo, 10, 10, testLogger())

	pos := &models.Coordinates{Latitude: 0, Longitude: 0}
	got, err := svc.NearbyRides(context.Background(), pos, 10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("rides outside the radius must never be offered, got %d", len(got))
	}
}

func TestNearbyRides_SortsAndLimits(t *testing.T) {
	repo := &fakeRideRepo{rides: []models.RideRequest{
		rideAt(t, "mid", 0.5, 0),
		rideAt(t, "near", 0.01, 0),
		rideAt(t, "also near", 0.02, 0),
	}}
	svc := New(&fakeDriverRepo{}, repo, 200, 10, testLogger())

	pos := &models.Coordinates{Latitude: 0, Longitude: 0}
	got, err := svc.NearbyRides(context.Background(), pos, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
	if got[0].Pickup != "near" || got[1].Pickup != "also near" {
		t.Fatalf("wrong order: %q then %q", got[0].Pickup, got[1].Pickup)
	}
	if got[0].DistanceKm >= got[1].DistanceKm {
		t.Fatal("results must be nearest first")
	}
}

func TestNearbyRides_RequiresDriverPosition(t *testing.T) {
	svc := New(&fakeDriverRepo{}, &fakeRideRepo{}, 10, 10, testLogger())

	_, err := svc.NearbyRides(context.Background(), nil, 0, 0)
	if !errors.Is(err, types.ErrLocationRequired) {
		t.Fatalf("expected ErrLocationRequired, got %v", err)
	}
}

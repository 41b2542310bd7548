package match

import (
	"context"
	"fmt"
	"sort"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/metrics"
)

const (
	DefaultRadiusKm = 10.0
	DefaultLimit    = 10
)

/*
Service ranks drivers and open ride requests by Haversine proximity.
Candidates are always consumed in creation order so that equal distances
resolve deterministically (earliest first).
*/
type Service struct {
	drivers DriverRepo
	rides   RideRepo

	radiusKm float64
	limit    int

	l logger.Logger
}

func New(drivers DriverRepo, rides RideRepo, radiusKm float64, limit int, l logger.Logger) *Service {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		drivers:  drivers,
		rides:    rides,
		radiusKm: radiusKm,
		limit:    limit,
		l:        l,
	}
}

// NearbyDrivers returns up to limit drivers around origin, nearest first.
//
// When origin is unknown the result is the first candidates in creation order
// with no distance annotation. When the radius filter leaves nothing but
// annotated candidates exist, the unfiltered set is returned sorted by
// distance; this mirrors the customer dashboard behavior of always suggesting
// someone.
func (s *Service) NearbyDrivers(ctx context.Context, origin *models.Coordinates, radiusKm float64, limit int) ([]models.DriverMatch, error) {
	ctx = wrap.WithAction(ctx, "nearby_drivers")
	metrics.MatchQueriesTotal.WithLabelValues("drivers").Inc()

	radiusKm, limit = s.defaults(radiusKm, limit)

	candidates, err := s.drivers.ListCandidates(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list driver candidates: %w", err))
	}

	if origin == nil {
		// No reference point: hand back candidates as-is, distance unknown.
		out := make([]models.DriverMatch, 0, limit)
		for _, c := range candidates {
			if len(out) == limit {
				break
			}
			out = append(out, models.DriverMatch{DriverCandidate: c})
		}
		return out, nil
	}

	annotated := make([]models.DriverMatch, 0, len(candidates))
	for _, c := range candidates {
		km, ok := DistanceKm(origin, c.Location)
		if !ok {
			continue
		}
		d := km
		annotated = append(annotated, models.DriverMatch{DriverCandidate: c, DistanceKm: &d})
	}

	withinRadius := make([]models.DriverMatch, 0, len(annotated))
	for _, m := range annotated {
		if *m.DistanceKm <= radiusKm {
			withinRadius = append(withinRadius, m)
		}
	}

	result := withinRadius
	if len(result) == 0 && len(annotated) > 0 {
		// Radius fallback: better to suggest distant drivers than nobody.
		s.l.Debug(ctx, "no drivers within radius, falling back to full candidate set",
			"radius_km", radiusKm,
			"candidates", len(annotated),
		)
		result = annotated
	}

	sort.SliceStable(result, func(i, j int) bool {
		return *result[i].DistanceKm < *result[j].DistanceKm
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// NearbyRides returns up to limit open ride requests within radiusKm of the
// driver, nearest first. Unlike NearbyDrivers there is no radius fallback: a
// driver is never offered rides outside the configured radius.
func (s *Service) NearbyRides(ctx context.Context, driverPos *models.Coordinates, radiusKm float64, limit int) ([]models.RideMatch, error) {
	ctx = wrap.WithAction(ctx, "nearby_rides")
	metrics.MatchQueriesTotal.WithLabelValues("rides").Inc()

	if driverPos == nil {
		return nil, wrap.Error(ctx, types.ErrLocationRequired)
	}

	radiusKm, limit = s.defaults(radiusKm, limit)

	open, err := s.rides.ListOpenWithPickup(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list open ride requests: %w", err))
	}

	matches := make([]models.RideMatch, 0, len(open))
	for _, r := range open {
		km, ok := DistanceKm(driverPos, r.PickupLocation)
		if !ok || km > radiusKm {
			continue
		}
		matches = append(matches, models.RideMatch{RideRequest: r, DistanceKm: km})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *Service) defaults(radiusKm float64, limit int) (float64, int) {
	if radiusKm <= 0 {
		radiusKm = s.radiusKm
	}
	if limit <= 0 {
		limit = s.limit
	}
	return radiusKm, limit
}

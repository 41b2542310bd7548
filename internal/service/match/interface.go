package match

import (
	"context"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
)

/*=================Driver Candidate Repository======================*/

type DriverRepo interface {
	// ListCandidates returns driver profiles with a known current location,
	// ordered by profile creation time (earliest first).
	ListCandidates(ctx context.Context) ([]models.DriverCandidate, error)
}

/*=================Open Ride Repository=============================*/

type RideRepo interface {
	// ListOpenWithPickup returns PENDING, unbooked ride requests whose pickup
	// coordinates are known, ordered by creation time (earliest first).
	ListOpenWithPickup(ctx context.Context) ([]models.RideRequest, error)
}

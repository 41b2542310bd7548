package ride

import (
	"context"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type RideRepo interface {
	// Create inserts a new ride request and fills in the generated ID and timestamps.
	Create(ctx context.Context, ride *models.RideRequest) error

	// Get returns the ride request or types.ErrRideNotFound.
	Get(ctx context.Context, rideID uuid.UUID) (*models.RideRequest, error)

	// UpdateLocations replaces pickup/dropoff texts and the optional pickup coordinates.
	UpdateLocations(ctx context.Context, rideID uuid.UUID, pickup, dropoff string, pickupLoc *models.Coordinates) error

	// SetStatus unconditionally moves the ride to the given status.
	SetStatus(ctx context.Context, rideID uuid.UUID, status types.RideStatus) error

	// AcceptPending atomically moves the ride from PENDING to ACCEPTED.
	// Returns false when the ride was no longer pending, without error.
	AcceptPending(ctx context.Context, rideID uuid.UUID) (bool, error)
}

type BookingRepo interface {
	// Create inserts a new booking for an accepted ride.
	Create(ctx context.Context, booking *models.Booking) error

	// GetByRide returns the booking attached to the ride or types.ErrBookingNotFound.
	GetByRide(ctx context.Context, rideID uuid.UUID) (*models.Booking, error)

	// SetStatus moves the booking to the given status.
	SetStatus(ctx context.Context, bookingID uuid.UUID, status types.BookingStatus) error
}

// Geocoder resolves a free-form address into coordinates.
type Geocoder interface {
	GetLocation(ctx context.Context, address string) (lat, lon float64, err error)
}

// Publisher announces booking status transitions to interested consumers.
type Publisher interface {
	PublishBookingStatus(ctx context.Context, msg models.BookingStatusMessage) error
}

package booking

import (
	"context"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type BookingRepo interface {
	// Get returns the booking or types.ErrBookingNotFound.
	Get(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)

	// SetStatus moves the booking to the given status.
	SetStatus(ctx context.Context, bookingID uuid.UUID, status types.BookingStatus) error

	// ListByDriver returns the driver's bookings, newest first.
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Booking, error)

	// ListByCustomer returns bookings whose ride belongs to the customer, newest first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Booking, error)
}

type RideRepo interface {
	// Get returns the ride request or types.ErrRideNotFound.
	Get(ctx context.Context, rideID uuid.UUID) (*models.RideRequest, error)

	// SetStatus moves the ride to the given status.
	SetStatus(ctx context.Context, rideID uuid.UUID, status types.RideStatus) error
}

// Publisher announces booking status transitions to interested consumers.
type Publisher interface {
	PublishBookingStatus(ctx context.Context, msg models.BookingStatusMessage) error
}

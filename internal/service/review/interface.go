package review

import (
	"context"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type ReviewRepo interface {
	// Create inserts the review and fills in the generated ID and timestamp.
	Create(ctx context.Context, review *models.DriverReview) error

	// Get returns the review or types.ErrReviewNotFound.
	Get(ctx context.Context, reviewID uuid.UUID) (*models.DriverReview, error)

	// GetByBooking returns the booking's review or types.ErrReviewNotFound.
	GetByBooking(ctx context.Context, bookingID uuid.UUID) (*models.DriverReview, error)

	// Delete removes the review, types.ErrReviewNotFound when absent.
	Delete(ctx context.Context, reviewID uuid.UUID) error

	// ListByDriver returns the driver's reviews, newest first.
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.DriverReview, error)
}

type BookingRepo interface {
	// Get returns the booking or types.ErrBookingNotFound.
	Get(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
}

type RideRepo interface {
	// Get returns the ride request or types.ErrRideNotFound.
	Get(ctx context.Context, rideID uuid.UUID) (*models.RideRequest, error)
}

package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/metrics"
	"github.com/rentadriver/ride-booking-system/pkg/trm"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type ReviewService struct {
	reviews  ReviewRepo
	bookings BookingRepo
	rides    RideRepo
	trm      trm.TxManager
	l        logger.Logger
}

func NewReviewService(reviews ReviewRepo, bookings BookingRepo, rides RideRepo, trm trm.TxManager, l logger.Logger) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		bookings: bookings,
		rides:    rides,
		trm:      trm,
		l:        l,
	}
}

// Submit creates the review for a completed booking. Only the customer who
// ordered the ride may review, only after completion, and only once per
// booking. Every guard fails loudly so the client can tell the cases apart.
func (s *ReviewService) Submit(ctx context.Context, bookingID uuid.UUID, actor *models.User, rating int, feedback, imageRef string) (*models.DriverReview, error) {
	ctx = wrap.WithAction(ctx, "submit_review")
	ctx = wrap.WithBookingID(ctx, bookingID.String())

	if rating < 1 || rating > 5 {
		return nil, wrap.Error(ctx, types.ErrInvalidRating)
	}

	var review *models.DriverReview

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookings.Get(ctx, bookingID)
		if err != nil {
			return wrap.Error(ctx, err)
		}

		ride, err := s.rides.Get(ctx, booking.RideRequestID)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if ride.CustomerID != actor.ID {
			return wrap.Error(ctx, types.ErrNotRideOwner)
		}
		if booking.Status != types.BookingCompleted {
			return wrap.Error(ctx, types.ErrBookingNotDone)
		}

		if _, err := s.reviews.GetByBooking(ctx, bookingID); err == nil {
			return wrap.Error(ctx, types.ErrReviewExists)
		} else if !errors.Is(err, types.ErrReviewNotFound) {
			return wrap.Error(ctx, fmt.Errorf("could not check existing review: %w", err))
		}

		review = &models.DriverReview{
			BookingID:  bookingID,
			DriverID:   booking.DriverID,
			CustomerID: actor.ID,
			Rating:     rating,
			Feedback:   strings.TrimSpace(feedback),
			ImageRef:   imageRef,
		}
		if err := s.reviews.Create(ctx, review); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not create review: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.ReviewsTotal.Inc()

	s.l.Info(ctx, "review submitted", "rating", rating)
	return review, nil
}

// Delete removes a review. Only its author may delete it.
func (s *ReviewService) Delete(ctx context.Context, reviewID uuid.UUID, actor *models.User) error {
	ctx = wrap.WithAction(ctx, "delete_review")

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		review, err := s.reviews.Get(ctx, reviewID)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if review.CustomerID != actor.ID {
			return wrap.Error(ctx, types.ErrNotReviewAuthor)
		}
		if err := s.reviews.Delete(ctx, reviewID); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not delete review: %w", err))
		}
		return nil
	})
	if err != nil {
		return wrap.Error(ctx, err)
	}

	s.l.Info(ctx, "review deleted")
	return nil
}

// ListForDriver returns all reviews left for the driver, newest first.
func (s *ReviewService) ListForDriver(ctx context.Context, driverID uuid.UUID) ([]models.DriverReview, error) {
	ctx = wrap.WithAction(ctx, "list_driver_reviews")

	reviews, err := s.reviews.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return reviews, nil
}

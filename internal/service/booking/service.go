package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/metrics"
	"github.com/rentadriver/ride-booking-system/pkg/trm"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type BookingService struct {
	bookings BookingRepo
	rides    RideRepo
	pub      Publisher
	trm      trm.TxManager
	l        logger.Logger
}

func NewBookingService(bookings BookingRepo, rides RideRepo, pub Publisher, trm trm.TxManager, l logger.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		rides:    rides,
		pub:      pub,
		trm:      trm,
		l:        l,
	}
}

// Get returns the booking when the actor is a party to it.
func (s *BookingService) Get(ctx context.Context, bookingID uuid.UUID, actor *models.User) (*models.Booking, error) {
	ctx = wrap.WithAction(ctx, "get_booking")
	ctx = wrap.WithBookingID(ctx, bookingID.String())

	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if _, err := s.authorizeParty(ctx, booking, actor); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return booking, nil
}

// UpdateStatus lets the assigned driver finish or cancel the booking. The
// ride request mirrors the transition in the same transaction.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, actor *models.User, status types.BookingStatus) (*models.Booking, error) {
	ctx = wrap.WithAction(ctx, "update_booking_status")
	ctx = wrap.WithBookingID(ctx, bookingID.String())

	if status != types.BookingCompleted && status != types.BookingCancelled {
		return nil, wrap.Error(ctx, types.ErrInvalidStatus)
	}

	var (
		booking    *models.Booking
		customerID uuid.UUID
	)

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.bookings.Get(ctx, bookingID)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if booking.DriverID != actor.ID {
			return wrap.Error(ctx, types.ErrNotAssignedDriver)
		}
		if booking.Status.Final() {
			return wrap.Error(ctx, types.ErrBookingFinalized)
		}

		ride, err := s.rides.Get(ctx, booking.RideRequestID)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		customerID = ride.CustomerID

		if err := s.bookings.SetStatus(ctx, bookingID, status); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not update booking status: %w", err))
		}
		if err := s.rides.SetStatus(ctx, booking.RideRequestID, status.MirroredRideStatus()); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not mirror ride status: %w", err))
		}

		booking.Status = status
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.BookingsTotal.WithLabelValues(string(status)).Inc()
	metrics.RideRequestsTotal.WithLabelValues(string(status.MirroredRideStatus())).Inc()

	s.publish(ctx, booking, customerID)

	s.l.Info(ctx, "booking status updated", "status", status)
	return booking, nil
}

// Cancel lets the customer who owns the ride cancel an ongoing booking.
func (s *BookingService) Cancel(ctx context.Context, bookingID uuid.UUID, actor *models.User) (*models.Booking, error) {
	ctx = wrap.WithAction(ctx, "cancel_booking")
	ctx = wrap.WithBookingID(ctx, bookingID.String())

	var (
		booking    *models.Booking
		customerID uuid.UUID
	)

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.bookings.Get(ctx, bookingID)
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
		customerID = ride.CustomerID

		if booking.Status.Final() {
			return wrap.Error(ctx, types.ErrBookingFinalized)
		}

		if err := s.bookings.SetStatus(ctx, bookingID, types.BookingCancelled); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not cancel booking: %w", err))
		}
		if err := s.rides.SetStatus(ctx, booking.RideRequestID, types.RideCancelled); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not cancel ride: %w", err))
		}

		booking.Status = types.BookingCancelled
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.BookingsTotal.WithLabelValues(string(types.BookingCancelled)).Inc()
	metrics.RideRequestsTotal.WithLabelValues(string(types.RideCancelled)).Inc()

	s.publish(ctx, booking, customerID)

	s.l.Info(ctx, "booking cancelled by customer")
	return booking, nil
}

// ListForActor returns the actor's bookings: the ones they drive for a
// driver, the ones attached to their rides for a customer.
func (s *BookingService) ListForActor(ctx context.Context, actor *models.User) ([]models.Booking, error) {
	ctx = wrap.WithAction(ctx, "list_bookings")

	var (
		bookings []models.Booking
		err      error
	)
	if actor.IsDriver() {
		bookings, err = s.bookings.ListByDriver(ctx, actor.ID)
	} else {
		bookings, err = s.bookings.ListByCustomer(ctx, actor.ID)
	}
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return bookings, nil
}

// authorizeParty checks the actor is the assigned driver or the customer
// who owns the booked ride, returning the ride's customer ID.
func (s *BookingService) authorizeParty(ctx context.Context, booking *models.Booking, actor *models.User) (uuid.UUID, error) {
	ride, err := s.rides.Get(ctx, booking.RideRequestID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if booking.DriverID != actor.ID && ride.CustomerID != actor.ID {
		return uuid.UUID{}, types.ErrNotBookingParty
	}
	return ride.CustomerID, nil
}

func (s *BookingService) publish(ctx context.Context, booking *models.Booking, customerID uuid.UUID) {
	if s.pub == nil || booking == nil {
		return
	}
	msg := models.BookingStatusMessage{
		BookingID:     booking.ID,
		RideRequestID: booking.RideRequestID,
		CustomerID:    customerID,
		DriverID:      booking.DriverID,
		Status:        booking.Status,
		Timestamp:     time.Now(),
	}
	if lc, ok := wrap.FromContext(ctx); ok {
		msg.CorrelationID = lc.RequestID
	}
	if err := s.pub.PublishBookingStatus(ctx, msg); err != nil {
		s.l.Warn(ctx, "could not publish booking status", "error", err)
	}
}

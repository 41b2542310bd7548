package ride

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/metrics"
	"github.com/rentadriver/ride-booking-system/pkg/trm"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type RideService struct {
	rides    RideRepo
	bookings BookingRepo
	geocoder Geocoder
	pub      Publisher
	trm      trm.TxManager
	l        logger.Logger
}

func NewRideService(rides RideRepo, bookings BookingRepo, geocoder Geocoder, pub Publisher, trm trm.TxManager, l logger.Logger) *RideService {
	return &RideService{
		rides:    rides,
		bookings: bookings,
		geocoder: geocoder,
		pub:      pub,
		trm:      trm,
		l:        l,
	}
}

// Create registers a new ride request for the customer. When the caller did
// not send pickup coordinates, the service tries to geocode the pickup text;
// a geocoding failure is not fatal, the ride is simply created without a
// pickup location and skipped by proximity matching.
func (s *RideService) Create(ctx context.Context, customer *models.User, pickup, dropoff string, pickupLoc *models.Coordinates) (*models.RideRequest, error) {
	ctx = wrap.WithAction(ctx, "create_ride")

	if !customer.IsCustomer() {
		return nil, wrap.Error(ctx, types.ErrCustomerRoleOnly)
	}

	pickup = strings.TrimSpace(pickup)
	dropoff = strings.TrimSpace(dropoff)
	if pickup == "" || dropoff == "" {
		return nil, wrap.Error(ctx, types.ErrEmptyRideLocation)
	}

	if pickupLoc == nil && s.geocoder != nil {
		lat, lon, err := s.geocoder.GetLocation(ctx, pickup)
		if err != nil {
			s.l.Warn(ctx, "could not geocode pickup address", "error", err)
		} else {
			pickupLoc = &models.Coordinates{Latitude: lat, Longitude: lon}
		}
	}

	ride := &models.RideRequest{
		CustomerID:     customer.ID,
		Pickup:         pickup,
		Dropoff:        dropoff,
		PickupLocation: pickupLoc,
		Status:         types.RidePending,
	}

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.rides.Create(ctx, ride); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not create ride in repo: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.RideRequestsTotal.WithLabelValues(string(types.RidePending)).Inc()

	ctx = wrap.WithRideID(ctx, ride.ID.String())
	s.l.Info(ctx, "ride request created")
	return ride, nil
}

// Get returns the ride request by ID.
func (s *RideService) Get(ctx context.Context, rideID uuid.UUID) (*models.RideRequest, error) {
	ctx = wrap.WithAction(ctx, "get_ride")
	ctx = wrap.WithRideID(ctx, rideID.String())

	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return ride, nil
}

// Accept claims a pending ride for the driver and creates the booking.
// The PENDING -> ACCEPTED transition is a conditional update, so when two
// drivers race for the same ride exactly one booking is created and the
// loser gets types.ErrRideAlreadyTaken.
func (s *RideService) Accept(ctx context.Context, rideID uuid.UUID, driver *models.User) (*models.Booking, error) {
	ctx = wrap.WithAction(ctx, "accept_ride")
	ctx = wrap.WithRideID(ctx, rideID.String())

	if !driver.IsDriver() {
		return nil, wrap.Error(ctx, types.ErrDriverRoleOnly)
	}

	var (
		booking *models.Booking
		ride    *models.RideRequest
	)

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		ride, err = s.rides.Get(ctx, rideID)
		if err != nil {
			return wrap.Error(ctx, err)
		}

		switch ride.Status {
		case types.RidePending:
		case types.RideAccepted:
			return wrap.Error(ctx, types.ErrRideAlreadyTaken)
		default:
			return wrap.Error(ctx, types.ErrRideNotPending)
		}

		ok, err := s.rides.AcceptPending(ctx, rideID)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not accept ride: %w", err))
		}
		if !ok {
			return wrap.Error(ctx, types.ErrRideAlreadyTaken)
		}

		booking = &models.Booking{
			RideRequestID: rideID,
			DriverID:      driver.ID,
			Status:        types.BookingOngoing,
			ConfirmedAt:   time.Now(),
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not create booking: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.RideRequestsTotal.WithLabelValues(string(types.RideAccepted)).Inc()
	metrics.BookingsTotal.WithLabelValues(string(types.BookingOngoing)).Inc()

	s.publish(ctx, booking, ride.CustomerID)

	ctx = wrap.WithBookingID(ctx, booking.ID.String())
	s.l.Info(ctx, "ride accepted")
	return booking, nil
}

// Edit replaces the pickup and dropoff of a pending ride. Only the customer
// who created the ride may edit it, and only while no driver has accepted.
// New pickup text is re-geocoded when the caller sends no coordinates.
func (s *RideService) Edit(ctx context.Context, rideID uuid.UUID, actor *models.User, pickup, dropoff string, pickupLoc *models.Coordinates) (*models.RideRequest, error) {
	ctx = wrap.WithAction(ctx, "edit_ride")
	ctx = wrap.WithRideID(ctx, rideID.String())

	pickup = strings.TrimSpace(pickup)
	dropoff = strings.TrimSpace(dropoff)
	if pickup == "" || dropoff == "" {
		return nil, wrap.Error(ctx, types.ErrEmptyRideLocation)
	}

	var ride *models.RideRequest

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		ride, err = s.rides.Get(ctx, rideID)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if ride.CustomerID != actor.ID {
			return wrap.Error(ctx, types.ErrNotRideOwner)
		}
		if ride.Status != types.RidePending {
			return wrap.Error(ctx, types.ErrRideNotPending)
		}

		if pickupLoc == nil && pickup != ride.Pickup && s.geocoder != nil {
			lat, lon, gerr := s.geocoder.GetLocation(ctx, pickup)
			if gerr != nil {
				s.l.Warn(ctx, "could not geocode new pickup address", "error", gerr)
			} else {
				pickupLoc = &models.Coordinates{Latitude: lat, Longitude: lon}
			}
		}
		if pickupLoc == nil {
			pickupLoc = ride.PickupLocation
		}

		if err := s.rides.UpdateLocations(ctx, rideID, pickup, dropoff, pickupLoc); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not update ride: %w", err))
		}

		ride.Pickup = pickup
		ride.Dropoff = dropoff
		ride.PickupLocation = pickupLoc
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.l.Info(ctx, "ride request updated")
	return ride, nil
}

// CancelResult tells the caller whether Cancel actually changed anything.
type CancelResult struct {
	AlreadyFinalized bool
}

// Cancel moves the ride (and its booking, when one exists) to CANCELLED.
// Allowed for the customer who created the ride and for the driver assigned
// to it. Cancelling an already finalized ride is not an error, the result
// just reports it.
func (s *RideService) Cancel(ctx context.Context, rideID uuid.UUID, actor *models.User) (*CancelResult, error) {
	ctx = wrap.WithAction(ctx, "cancel_ride")
	ctx = wrap.WithRideID(ctx, rideID.String())

	result := &CancelResult{}
	var (
		booking *models.Booking
		ride    *models.RideRequest
	)

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		ride, err = s.rides.Get(ctx, rideID)
		if err != nil {
			return wrap.Error(ctx, err)
		}

		booking, err = s.bookings.GetByRide(ctx, rideID)
		if err != nil && !errors.Is(err, types.ErrBookingNotFound) {
			return wrap.Error(ctx, fmt.Errorf("could not load booking: %w", err))
		}

		isOwner := ride.CustomerID == actor.ID
		isAssigned := booking != nil && booking.DriverID == actor.ID
		if !isOwner && !isAssigned {
			return wrap.Error(ctx, types.ErrNotCancelParty)
		}

		if ride.Status.Final() {
			result.AlreadyFinalized = true
			booking = nil
			return nil
		}

		if booking != nil && !booking.Status.Final() {
			if err := s.bookings.SetStatus(ctx, booking.ID, types.BookingCancelled); err != nil {
				return wrap.Error(ctx, fmt.Errorf("could not cancel booking: %w", err))
			}
			booking.Status = types.BookingCancelled
		} else {
			booking = nil
		}

		if err := s.rides.SetStatus(ctx, rideID, types.RideCancelled); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not cancel ride: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	if result.AlreadyFinalized {
		s.l.Info(ctx, "ride already finalized, cancel skipped")
		return result, nil
	}

	metrics.RideRequestsTotal.WithLabelValues(string(types.RideCancelled)).Inc()
	if booking != nil {
		metrics.BookingsTotal.WithLabelValues(string(types.BookingCancelled)).Inc()
		s.publish(ctx, booking, ride.CustomerID)
	}

	s.l.Info(ctx, "ride cancelled")
	return result, nil
}

// publish sends the booking status message best-effort. Delivery failures
// are logged, never surfaced to the caller.
func (s *RideService) publish(ctx context.Context, booking *models.Booking, customerID uuid.UUID) {
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

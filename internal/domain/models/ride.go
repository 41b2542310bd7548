package models

import (
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

// RideRequest is a customer's ask for a driver between two locations.
// At most one booking ever references it.
type RideRequest struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Pickup     string
	Dropoff    string

	// Geocoded or client-supplied pickup point; nil when unknown.
	PickupLocation *Coordinates

	Status    types.RideStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Booking is the accepted, driver-assigned instance of a ride request.
type Booking struct {
	ID            uuid.UUID
	RideRequestID uuid.UUID
	DriverID      uuid.UUID
	Status        types.BookingStatus
	ConfirmedAt   time.Time
	UpdatedAt     time.Time
}

// RideMatch is a pending ride annotated with its distance from a driver.
type RideMatch struct {
	RideRequest
	DistanceKm float64
}

// BookingStatusMessage is published when a booking changes state so the
// notification channel can inform both parties. Delivery is best-effort.
type BookingStatusMessage struct {
	BookingID     uuid.UUID           `json:"booking_id"`
	RideRequestID uuid.UUID           `json:"ride_request_id"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	DriverID      uuid.UUID           `json:"driver_id"`
	Status        types.BookingStatus `json:"status"`
	Timestamp     time.Time           `json:"timestamp"`
	CorrelationID string              `json:"correlation_id"`
}

package dto

import (
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/pkg/validator"
)

type CoordinatesDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c *CoordinatesDTO) ToModel() *models.Coordinates {
	if c == nil {
		return nil
	}
	return &models.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

func CoordinatesFromModel(c *models.Coordinates) *CoordinatesDTO {
	if c == nil {
		return nil
	}
	return &CoordinatesDTO{Latitude: c.Latitude, Longitude: c.Longitude}
}

func ValidateCoordinates(v *validator.Validator, c *CoordinatesDTO, field string) {
	if c == nil {
		return
	}
	v.Check(c.Latitude >= -90 && c.Latitude <= 90, field, "latitude must be between -90 and 90")
	v.Check(c.Longitude >= -180 && c.Longitude <= 180, field, "longitude must be between -180 and 180")
}

type RideRequestDTO struct {
	Pickup         string          `json:"pickup"`
	Dropoff        string          `json:"dropoff"`
	PickupLocation *CoordinatesDTO `json:"pickup_location,omitempty"`
}

func ValidateRideRequest(v *validator.Validator, req *RideRequestDTO) {
	v.Check(req.Pickup != "", "pickup", "must be provided")
	v.Check(len(req.Pickup) <= 500, "pickup", "must not be more than 500 bytes long")
	v.Check(req.Dropoff != "", "dropoff", "must be provided")
	v.Check(len(req.Dropoff) <= 500, "dropoff", "must not be more than 500 bytes long")
	ValidateCoordinates(v, req.PickupLocation, "pickup_location")
}

type RideResponse struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id"`
	Pickup         string          `json:"pickup"`
	Dropoff        string          `json:"dropoff"`
	PickupLocation *CoordinatesDTO `json:"pickup_location,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func RideFromModel(ride *models.RideRequest) RideResponse {
	return RideResponse{
		ID:             ride.ID.String(),
		CustomerID:     ride.CustomerID.String(),
		Pickup:         ride.Pickup,
		Dropoff:        ride.Dropoff,
		PickupLocation: CoordinatesFromModel(ride.PickupLocation),
		Status:         ride.Status.String(),
		CreatedAt:      ride.CreatedAt,
		UpdatedAt:      ride.UpdatedAt,
	}
}

type RideMatchResponse struct {
	RideResponse
	DistanceKm float64 `json:"distance_km"`
}

func RideMatchesFromModel(matches []models.RideMatch) []RideMatchResponse {
	out := make([]RideMatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, RideMatchResponse{
			RideResponse: RideFromModel(&m.RideRequest),
			DistanceKm:   m.DistanceKm,
		})
	}
	return out
}

type BookingResponse struct {
	ID            string    `json:"id"`
	RideRequestID string    `json:"ride_request_id"`
	DriverID      string    `json:"driver_id"`
	Status        string    `json:"status"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func BookingFromModel(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		RideRequestID: b.RideRequestID.String(),
		DriverID:      b.DriverID.String(),
		Status:        b.Status.String(),
		ConfirmedAt:   b.ConfirmedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func BookingsFromModel(bookings []models.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, BookingFromModel(&bookings[i]))
	}
	return out
}

type BookingStatusUpdateRequest struct {
	Status string `json:"status"`
}

func ValidateBookingStatusUpdate(v *validator.Validator, req *BookingStatusUpdateRequest) {
	v.Check(req.Status != "", "status", "must be provided")
	v.Check(validator.PermittedValue(req.Status, "COMPLETED", "CANCELLED"), "status", "must be COMPLETED or CANCELLED")
}

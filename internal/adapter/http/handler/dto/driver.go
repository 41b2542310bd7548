package dto

import (
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/service/driver"
	"github.com/rentadriver/ride-booking-system/pkg/validator"
)

type DriverProfileRequest struct {
	FullName       *string         `json:"full_name,omitempty"`
	LicenseNumber  *string         `json:"license_number,omitempty"`
	VehicleDetails *string         `json:"vehicle_details,omitempty"`
	Address        *string         `json:"address,omitempty"`
	NIDNumber      *string         `json:"nid_number,omitempty"`
	PictureRef     *string         `json:"picture_ref,omitempty"`
	Location       *CoordinatesDTO `json:"location,omitempty"`
}

func (r *DriverProfileRequest) ToUpdate() driver.ProfileUpdate {
	return driver.ProfileUpdate{
		FullName:       r.FullName,
		LicenseNumber:  r.LicenseNumber,
		VehicleDetails: r.VehicleDetails,
		Address:        r.Address,
		NIDNumber:      r.NIDNumber,
		PictureRef:     r.PictureRef,
		Location:       r.Location.ToModel(),
	}
}

func ValidateDriverProfile(v *validator.Validator, req *DriverProfileRequest) {
	if req.FullName != nil {
		v.Check(len(*req.FullName) <= 200, "full_name", "must not be more than 200 bytes long")
	}
	if req.LicenseNumber != nil {
		v.Check(len(*req.LicenseNumber) <= 50, "license_number", "must not be more than 50 bytes long")
	}
	if req.VehicleDetails != nil {
		v.Check(len(*req.VehicleDetails) <= 500, "vehicle_details", "must not be more than 500 bytes long")
	}
	if req.NIDNumber != nil {
		v.Check(len(*req.NIDNumber) <= 50, "nid_number", "must not be more than 50 bytes long")
	}
	ValidateCoordinates(v, req.Location, "location")
}

type DriverProfileResponse struct {
	UserID         string          `json:"user_id"`
	FullName       string          `json:"full_name"`
	LicenseNumber  string          `json:"license_number"`
	VehicleDetails string          `json:"vehicle_details"`
	Address        string          `json:"address"`
	NIDNumber      string          `json:"nid_number"`
	PictureRef     string          `json:"picture_ref,omitempty"`
	Location       *CoordinatesDTO `json:"location,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func DriverProfileFromModel(p *models.DriverProfile) DriverProfileResponse {
	return DriverProfileResponse{
		UserID:         p.UserID.String(),
		FullName:       p.FullName,
		LicenseNumber:  p.LicenseNumber,
		VehicleDetails: p.VehicleDetails,
		Address:        p.Address,
		NIDNumber:      p.NIDNumber,
		PictureRef:     p.PictureRef,
		Location:       CoordinatesFromModel(p.Location),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

type LocationUpdateRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *LocationUpdateRequest) ToModel() *models.Coordinates {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &models.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

func ValidateLocationUpdate(v *validator.Validator, req *LocationUpdateRequest) {
	v.Check(req.Latitude != nil, "latitude", "must be provided")
	v.Check(req.Longitude != nil, "longitude", "must be provided")
	if req.Latitude != nil {
		v.Check(*req.Latitude >= -90 && *req.Latitude <= 90, "latitude", "must be between -90 and 90")
	}
	if req.Longitude != nil {
		v.Check(*req.Longitude >= -180 && *req.Longitude <= 180, "longitude", "must be between -180 and 180")
	}
}

type DriverMatchResponse struct {
	UserID         string          `json:"user_id"`
	Email          string          `json:"email"`
	FullName       string          `json:"full_name"`
	VehicleDetails string          `json:"vehicle_details"`
	Location       *CoordinatesDTO `json:"location,omitempty"`
	DistanceKm     *float64        `json:"distance_km,omitempty"`
}

func DriverMatchesFromModel(matches []models.DriverMatch) []DriverMatchResponse {
	out := make([]DriverMatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, DriverMatchResponse{
			UserID:         m.UserID.String(),
			Email:          m.Email,
			FullName:       m.FullName,
			VehicleDetails: m.VehicleDetails,
			Location:       CoordinatesFromModel(m.Location),
			DistanceKm:     m.DistanceKm,
		})
	}
	return out
}

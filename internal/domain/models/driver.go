package models

import (
	"time"

	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

// DriverProfile holds the driver-specific data attached 1:1 to a driver
// account. It is created lazily on the first profile save.
type DriverProfile struct {
	UserID         uuid.UUID
	FullName       string
	LicenseNumber  string
	VehicleDetails string
	Address        string
	NIDNumber      string

	// PictureRef is an opaque media-store key; the binary itself lives
	// outside this system.
	PictureRef string

	// Current position, nil until the driver reports one.
	Location *Coordinates

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DriverCandidate is a profile row considered by the match finder.
type DriverCandidate struct {
	UserID         uuid.UUID
	Email          string
	FullName       string
	VehicleDetails string
	Location       *Coordinates
	CreatedAt      time.Time
}

// DriverMatch is a candidate annotated with its distance from the origin.
// DistanceKm is nil when the origin was unknown.
type DriverMatch struct {
	DriverCandidate
	DistanceKm *float64
}

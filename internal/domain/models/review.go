package models

import (
	"time"

	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

// DriverReview is the single review a customer may leave for a completed
// booking. Rating is 1..5.
type DriverReview struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	DriverID   uuid.UUID
	CustomerID uuid.UUID
	Rating     int
	Feedback   string

	// ImageRef is an opaque media-store key, empty when no image was attached.
	ImageRef string

	CreatedAt time.Time
}

// DriverStats is the per-driver aggregate the leaderboard ranks on.
// AvgRating is nil when the driver has no reviews.
type DriverStats struct {
	DriverID       uuid.UUID
	Email          string
	FullName       string
	TotalCompleted int
	AvgRating      *float64
}

// PlatformTotals are the platform-wide counters exposed next to the
// leaderboard.
type PlatformTotals struct {
	TotalDrivers        int
	TotalCompletedRides int
	AvgRating           *float64
}

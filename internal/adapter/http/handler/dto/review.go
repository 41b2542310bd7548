package dto

import (
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/pkg/validator"
)

type ReviewRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
	ImageRef string `json:"image_ref,omitempty"`
}

func ValidateReview(v *validator.Validator, req *ReviewRequest) {
	v.Check(req.Rating >= 1 && req.Rating <= 5, "rating", "must be between 1 and 5")
	v.Check(len(req.Feedback) <= 2000, "feedback", "must not be more than 2000 bytes long")
}

type ReviewResponse struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	DriverID   string    `json:"driver_id"`
	CustomerID string    `json:"customer_id"`
	Rating     int       `json:"rating"`
	Feedback   string    `json:"feedback"`
	ImageRef   string    `json:"image_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func ReviewFromModel(r *models.DriverReview) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID.String(),
		BookingID:  r.BookingID.String(),
		DriverID:   r.DriverID.String(),
		CustomerID: r.CustomerID.String(),
		Rating:     r.Rating,
		Feedback:   r.Feedback,
		ImageRef:   r.ImageRef,
		CreatedAt:  r.CreatedAt,
	}
}

func ReviewsFromModel(reviews []models.DriverReview) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, ReviewFromModel(&reviews[i]))
	}
	return out
}

type DriverStatsResponse struct {
	DriverID       string   `json:"driver_id"`
	Email          string   `json:"email"`
	FullName       string   `json:"full_name"`
	TotalCompleted int      `json:"total_completed"`
	AvgRating      *float64 `json:"avg_rating,omitempty"`
}

func DriverStatsFromModel(stats []models.DriverStats) []DriverStatsResponse {
	out := make([]DriverStatsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, DriverStatsResponse{
			DriverID:       s.DriverID.String(),
			Email:          s.Email,
			FullName:       s.FullName,
			TotalCompleted: s.TotalCompleted,
			AvgRating:      s.AvgRating,
		})
	}
	return out
}

type PlatformTotalsResponse struct {
	TotalDrivers        int      `json:"total_drivers"`
	TotalCompletedRides int      `json:"total_completed_rides"`
	AvgRating           *float64 `json:"avg_rating,omitempty"`
}

func PlatformTotalsFromModel(t *models.PlatformTotals) PlatformTotalsResponse {
	return PlatformTotalsResponse{
		TotalDrivers:        t.TotalDrivers,
		TotalCompletedRides: t.TotalCompletedRides,
		AvgRating:           t.AvgRating,
	}
}

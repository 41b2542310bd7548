package driver

import (
	"context"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type ProfileRepo interface {
	// Get returns the driver's profile or types.ErrProfileNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*models.DriverProfile, error)

	// Upsert creates the profile on first save and updates it afterwards.
	Upsert(ctx context.Context, profile *models.DriverProfile) error

	// UpdateLocation stores the driver's current position.
	UpdateLocation(ctx context.Context, userID uuid.UUID, loc *models.Coordinates) error

	// ClearPicture removes the stored picture reference.
	ClearPicture(ctx context.Context, userID uuid.UUID) error
}

type UserRepo interface {
	// UpdateLastLocation stores the account's last reported position.
	UpdateLastLocation(ctx context.Context, userID uuid.UUID, loc *models.Coordinates) error
}

// Geocoder resolves a free-form address into coordinates.
type Geocoder interface {
	GetLocation(ctx context.Context, address string) (lat, lon float64, err error)
}

package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/trm"
)

// ProfileUpdate carries the editable profile fields. Nil pointers mean
// "leave unchanged"; the first save fills missing fields with zero values.
type ProfileUpdate struct {
	FullName       *string
	LicenseNumber  *string
	VehicleDetails *string
	Address        *string
	NIDNumber      *string
	PictureRef     *string
	Location       *models.Coordinates
}

type DriverService struct {
	profiles ProfileRepo
	users    UserRepo
	geocoder Geocoder
	trm      trm.TxManager
	l        logger.Logger
}

func NewDriverService(profiles ProfileRepo, users UserRepo, geocoder Geocoder, trm trm.TxManager, l logger.Logger) *DriverService {
	return &DriverService{
		profiles: profiles,
		users:    users,
		geocoder: geocoder,
		trm:      trm,
		l:        l,
	}
}

// GetProfile returns the driver's profile, creating an empty one on first
// access so a fresh driver account always has something to edit.
func (s *DriverService) GetProfile(ctx context.Context, user *models.User) (*models.DriverProfile, error) {
	ctx = wrap.WithAction(ctx, "get_driver_profile")

	if !user.IsDriver() {
		return nil, wrap.Error(ctx, types.ErrDriverRoleOnly)
	}

	profile, err := s.profiles.Get(ctx, user.ID)
	if errors.Is(err, types.ErrProfileNotFound) {
		profile = &models.DriverProfile{UserID: user.ID}
		if err := s.profiles.Upsert(ctx, profile); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("could not create empty profile: %w", err))
		}
		return profile, nil
	}
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return profile, nil
}

// SaveProfile applies the update on top of the stored profile, creating it
// when absent. When the address changed and no explicit location was sent,
// the address is geocoded best-effort; a geocoding failure leaves the
// location untouched.
func (s *DriverService) SaveProfile(ctx context.Context, user *models.User, update ProfileUpdate) (*models.DriverProfile, error) {
	ctx = wrap.WithAction(ctx, "save_driver_profile")

	if !user.IsDriver() {
		return nil, wrap.Error(ctx, types.ErrDriverRoleOnly)
	}

	var profile *models.DriverProfile

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error
		profile, err = s.profiles.Get(ctx, user.ID)
		if errors.Is(err, types.ErrProfileNotFound) {
			profile = &models.DriverProfile{UserID: user.ID}
		} else if err != nil {
			return wrap.Error(ctx, err)
		}

		addressChanged := applyUpdate(profile, update)

		if update.Location != nil {
			profile.Location = update.Location
		} else if addressChanged && profile.Address != "" && s.geocoder != nil {
			lat, lon, gerr := s.geocoder.GetLocation(ctx, profile.Address)
			if gerr != nil {
				s.l.Warn(ctx, "could not geocode profile address", "error", gerr)
			} else {
				profile.Location = &models.Coordinates{Latitude: lat, Longitude: lon}
			}
		}

		if err := s.profiles.Upsert(ctx, profile); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not save profile: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.l.Info(ctx, "driver profile saved")
	return profile, nil
}

// DeletePicture clears the profile's picture reference.
func (s *DriverService) DeletePicture(ctx context.Context, user *models.User) error {
	ctx = wrap.WithAction(ctx, "delete_profile_picture")

	if !user.IsDriver() {
		return wrap.Error(ctx, types.ErrDriverRoleOnly)
	}

	if err := s.profiles.ClearPicture(ctx, user.ID); err != nil {
		return wrap.Error(ctx, err)
	}

	s.l.Info(ctx, "profile picture removed")
	return nil
}

// UpdateLocation stores the caller's current position. For drivers the
// profile position used by proximity matching is updated in the same
// transaction.
func (s *DriverService) UpdateLocation(ctx context.Context, user *models.User, loc *models.Coordinates) error {
	ctx = wrap.WithAction(ctx, "update_location")

	if loc == nil {
		return wrap.Error(ctx, types.ErrLocationRequired)
	}
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return wrap.Error(ctx, types.NewError(types.KindValidation, "coordinates out of range"))
	}

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.users.UpdateLastLocation(ctx, user.ID, loc); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not update user location: %w", err))
		}
		if user.IsDriver() {
			err := s.profiles.UpdateLocation(ctx, user.ID, loc)
			if err != nil && !errors.Is(err, types.ErrProfileNotFound) {
				return wrap.Error(ctx, fmt.Errorf("could not update driver location: %w", err))
			}
		}
		return nil
	})
	if err != nil {
		return wrap.Error(ctx, err)
	}

	s.l.Info(ctx, "location updated")
	return nil
}

// applyUpdate copies set fields onto the profile and reports whether the
// address text changed.
func applyUpdate(profile *models.DriverProfile, update ProfileUpdate) bool {
	if update.FullName != nil {
		profile.FullName = strings.TrimSpace(*update.FullName)
	}
	if update.LicenseNumber != nil {
		profile.LicenseNumber = strings.TrimSpace(*update.LicenseNumber)
	}
	if update.VehicleDetails != nil {
		profile.VehicleDetails = strings.TrimSpace(*update.VehicleDetails)
	}
	if update.NIDNumber != nil {
		profile.NIDNumber = strings.TrimSpace(*update.NIDNumber)
	}
	if update.PictureRef != nil {
		profile.PictureRef = *update.PictureRef
	}

	addressChanged := false
	if update.Address != nil {
		newAddr := strings.TrimSpace(*update.Address)
		addressChanged = newAddr != profile.Address
		profile.Address = newAddr
	}
	return addressChanged
}

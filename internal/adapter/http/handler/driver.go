package handler

import (
	"context"
	"net/http"

	"github.com/rentadriver/ride-booking-system/internal/adapter/http/handler/dto"
	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/service/driver"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/validator"
)

type DriverService interface {
	GetProfile(ctx context.Context, user *models.User) (*models.DriverProfile, error)
	SaveProfile(ctx context.Context, user *models.User, update driver.ProfileUpdate) (*models.DriverProfile, error)
	DeletePicture(ctx context.Context, user *models.User) error
	UpdateLocation(ctx context.Context, user *models.User, loc *models.Coordinates) error
}

type Driver struct {
	drivers DriverService
	l       logger.Logger
}

func NewDriver(drivers DriverService, l logger.Logger) *Driver {
	return &Driver{drivers: drivers, l: l}
}

// GetProfile godoc
// @Summary      Get my driver profile
// @Tags         Drivers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DriverProfileResponse
// @Router       /drivers/profile [get]
func (h *Driver) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_driver_profile")
	user := models.UserFromContext(ctx)

	profile, err := h.drivers.GetProfile(ctx, user)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get driver profile", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"profile": dto.DriverProfileFromModel(profile)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// SaveProfile godoc
// @Summary      Update my driver profile
// @Description  Partial update; only the fields present are changed
// @Tags         Drivers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  dto.DriverProfileRequest  true  "profile fields"
// @Success      200  {object}  dto.DriverProfileResponse
// @Router       /drivers/profile [put]
func (h *Driver) SaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "save_driver_profile")
	user := models.UserFromContext(ctx)

	req := &dto.DriverProfileRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateDriverProfile(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	profile, err := h.drivers.SaveProfile(ctx, user, req.ToUpdate())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to save driver profile", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"profile": dto.DriverProfileFromModel(profile)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// DeletePicture godoc
// @Summary      Delete my profile picture
// @Tags         Drivers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /drivers/profile/picture [delete]
func (h *Driver) DeletePicture(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "delete_profile_picture")
	user := models.UserFromContext(ctx)

	if err := h.drivers.DeletePicture(ctx, user); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to delete profile picture", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"message": "picture deleted"}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// UpdateLocation godoc
// @Summary      Update my location
// @Description  Stores the caller's last known position; drivers become matchable
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  dto.LocationUpdateRequest  true  "coordinates"
// @Success      200  {object}  map[string]string
// @Router       /users/location [put]
func (h *Driver) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_location")
	user := models.UserFromContext(ctx)

	req := &dto.LocationUpdateRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateLocationUpdate(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	loc := req.ToModel()
	if err := h.drivers.UpdateLocation(ctx, user, loc); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update location", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"message": "location updated"}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rentadriver/ride-booking-system/internal/adapter/http/handler/dto"
	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/service/ride"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
	"github.com/rentadriver/ride-booking-system/pkg/validator"
)

type RideService interface {
	Create(ctx context.Context, customer *models.User, pickup, dropoff string, pickupLoc *models.Coordinates) (*models.RideRequest, error)
	Get(ctx context.Context, rideID uuid.UUID) (*models.RideRequest, error)
	Accept(ctx context.Context, rideID uuid.UUID, driver *models.User) (*models.Booking, error)
	Edit(ctx context.Context, rideID uuid.UUID, actor *models.User, pickup, dropoff string, pickupLoc *models.Coordinates) (*models.RideRequest, error)
	Cancel(ctx context.Context, rideID uuid.UUID, actor *models.User) (*ride.CancelResult, error)
}

type MatchService interface {
	NearbyDrivers(ctx context.Context, origin *models.Coordinates, radiusKm float64, limit int) ([]models.DriverMatch, error)
	NearbyRides(ctx context.Context, driverPos *models.Coordinates, radiusKm float64, limit int) ([]models.RideMatch, error)
}

type Ride struct {
	rides RideService
	match MatchService
	l     logger.Logger
}

func NewRide(rides RideService, match MatchService, l logger.Logger) *Ride {
	return &Ride{
		rides: rides,
		match: match,
		l:     l,
	}
}

// Create godoc
// @Summary      Create ride request
// @Description  Customer asks for a driver between two locations
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  dto.RideRequestDTO  true  "ride payload"
// @Success      201  {object}  dto.RideResponse
// @Router       /rides [post]
func (h *Ride) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_ride")
	user := models.UserFromContext(ctx)

	req := &dto.RideRequestDTO{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateRideRequest(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	created, err := h.rides.Create(ctx, user, req.Pickup, req.Dropoff, req.PickupLocation.ToModel())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to create ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"ride": dto.RideFromModel(created)}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Get godoc
// @Summary      Get ride request
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path  string  true  "ride ID"
// @Success      200  {object}  dto.RideResponse
// @Failure      404  {object}  map[string]string
// @Router       /rides/{ride_id} [get]
func (h *Ride) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_ride")

	rideID, ok := pathID(w, r, "ride_id")
	if !ok {
		return
	}

	found, err := h.rides.Get(ctx, rideID)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"ride": dto.RideFromModel(found)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Accept godoc
// @Summary      Accept ride request
// @Description  Driver claims a pending ride; exactly one driver wins
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path  string  true  "ride ID"
// @Success      201  {object}  dto.BookingResponse
// @Failure      409  {object}  map[string]string
// @Router       /rides/{ride_id}/accept [post]
func (h *Ride) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "accept_ride")
	user := models.UserFromContext(ctx)

	rideID, ok := pathID(w, r, "ride_id")
	if !ok {
		return
	}

	booking, err := h.rides.Accept(ctx, rideID, user)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to accept ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"booking": dto.BookingFromModel(booking)}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Edit godoc
// @Summary      Edit ride request
// @Description  Customer updates pickup/dropoff of a pending ride
// @Tags         Rides
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path  string  true  "ride ID"
// @Param        request  body  dto.RideRequestDTO  true  "ride payload"
// @Success      200  {object}  dto.RideResponse
// @Router       /rides/{ride_id} [patch]
func (h *Ride) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "edit_ride")
	user := models.UserFromContext(ctx)

	rideID, ok := pathID(w, r, "ride_id")
	if !ok {
		return
	}

	req := &dto.RideRequestDTO{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateRideRequest(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	updated, err := h.rides.Edit(ctx, rideID, user, req.Pickup, req.Dropoff, req.PickupLocation.ToModel())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to edit ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"ride": dto.RideFromModel(updated)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Cancel godoc
// @Summary      Cancel ride request
// @Description  Customer or assigned driver cancels; repeating is harmless
// @Tags         Rides
// @Produce      json
// @Security     BearerAuth
// @Param        ride_id  path  string  true  "ride ID"
// @Success      200  {object}  map[string]string
// @Router       /rides/{ride_id}/cancel [post]
func (h *Ride) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "cancel_ride")
	user := models.UserFromContext(ctx)

	rideID, ok := pathID(w, r, "ride_id")
	if !ok {
		return
	}

	result, err := h.rides.Cancel(ctx, rideID, user)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to cancel ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	message := "ride cancelled"
	if result.AlreadyFinalized {
		message = "ride already finalized"
	}

	response := envelope{"message": message}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// NearbyRides godoc
// @Summary      Nearby pending rides
// @Description  Pending rides within the radius of the driver's position
// @Tags         Matching
// @Produce      json
// @Security     BearerAuth
// @Param        radius_km  query  number  false  "search radius in km"
// @Param        limit      query  int     false  "max results"
// @Success      200  {array}  dto.RideMatchResponse
// @Router       /rides/nearby [get]
func (h *Ride) NearbyRides(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "nearby_rides")
	user := models.UserFromContext(ctx)

	radiusKm, limit := matchParams(r)

	matches, err := h.match.NearbyRides(ctx, driverPosition(user), radiusKm, limit)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to find nearby rides", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"rides": dto.RideMatchesFromModel(matches)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// NearbyDrivers godoc
// @Summary      Nearby drivers
// @Description  Available drivers sorted by distance from the customer
// @Tags         Matching
// @Produce      json
// @Security     BearerAuth
// @Param        radius_km  query  number  false  "search radius in km"
// @Param        limit      query  int     false  "max results"
// @Success      200  {array}  dto.DriverMatchResponse
// @Router       /drivers/nearby [get]
func (h *Ride) NearbyDrivers(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "nearby_drivers")
	user := models.UserFromContext(ctx)

	radiusKm, limit := matchParams(r)

	matches, err := h.match.NearbyDrivers(ctx, user.LastLocation, radiusKm, limit)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to find nearby drivers", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"drivers": dto.DriverMatchesFromModel(matches)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// matchParams reads the optional radius_km and limit query parameters.
// Zero values let the match finder fall back to its configured defaults.
func matchParams(r *http.Request) (float64, int) {
	var (
		radiusKm float64
		limit    int
	)
	if s := r.URL.Query().Get("radius_km"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
			radiusKm = f
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	return radiusKm, limit
}

func driverPosition(user *models.User) *models.Coordinates {
	if user == nil {
		return nil
	}
	return user.LastLocation
}

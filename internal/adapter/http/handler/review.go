package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rentadriver/ride-booking-system/internal/adapter/http/handler/dto"
	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
)

type LeaderboardService interface {
	TopDrivers(ctx context.Context, limit int) ([]models.DriverStats, error)
	Overview(ctx context.Context) (*models.PlatformTotals, error)
}

type Review struct {
	reviews     ReviewService
	leaderboard LeaderboardService
	l           logger.Logger
}

func NewReview(reviews ReviewService, leaderboard LeaderboardService, l logger.Logger) *Review {
	return &Review{
		reviews:     reviews,
		leaderboard: leaderboard,
		l:           l,
	}
}

// Delete godoc
// @Summary      Delete review
// @Description  The author removes their own review
// @Tags         Reviews
// @Produce      json
// @Security     BearerAuth
// @Param        review_id  path  string  true  "review ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /reviews/{review_id} [delete]
func (h *Review) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "delete_review")
	user := models.UserFromContext(ctx)

	reviewID, ok := pathID(w, r, "review_id")
	if !ok {
		return
	}

	if err := h.reviews.Delete(ctx, reviewID, user); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to delete review", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"message": "review deleted"}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ListForDriver godoc
// @Summary      List driver reviews
// @Description  Reviews left for the given driver, newest first
// @Tags         Reviews
// @Produce      json
// @Security     BearerAuth
// @Param        driver_id  path  string  true  "driver ID"
// @Success      200  {array}  dto.ReviewResponse
// @Router       /drivers/{driver_id}/reviews [get]
func (h *Review) ListForDriver(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_driver_reviews")

	driverID, ok := pathID(w, r, "driver_id")
	if !ok {
		return
	}

	reviews, err := h.reviews.ListForDriver(ctx, driverID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list driver reviews", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"reviews": dto.ReviewsFromModel(reviews)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Leaderboard godoc
// @Summary      Driver leaderboard
// @Description  Drivers ranked by completed rides, then average rating
// @Tags         Leaderboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query  int  false  "max entries"
// @Success      200  {array}  dto.DriverStatsResponse
// @Router       /leaderboard [get]
func (h *Review) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "leaderboard")

	var limit int
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	stats, err := h.leaderboard.TopDrivers(ctx, limit)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build leaderboard", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"drivers": dto.DriverStatsFromModel(stats)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Overview godoc
// @Summary      Platform totals
// @Description  Counts of users, rides and completed bookings
// @Tags         Leaderboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.PlatformTotalsResponse
// @Router       /leaderboard/overview [get]
func (h *Review) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "leaderboard_overview")

	totals, err := h.leaderboard.Overview(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to load platform totals", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"totals": dto.PlatformTotalsFromModel(totals)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

package handler

import (
	"context"
	"net/http"

	"github.com/rentadriver/ride-booking-system/internal/adapter/http/handler/dto"
	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
	"github.com/rentadriver/ride-booking-system/pkg/validator"
)

type BookingService interface {
	Get(ctx context.Context, bookingID uuid.UUID, actor *models.User) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, actor *models.User, status types.BookingStatus) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, actor *models.User) (*models.Booking, error)
	ListForActor(ctx context.Context, actor *models.User) ([]models.Booking, error)
}

type ReviewService interface {
	Submit(ctx context.Context, bookingID uuid.UUID, actor *models.User, rating int, feedback, imageRef string) (*models.DriverReview, error)
	Delete(ctx context.Context, reviewID uuid.UUID, actor *models.User) error
	ListForDriver(ctx context.Context, driverID uuid.UUID) ([]models.DriverReview, error)
}

type ChatService interface {
	Send(ctx context.Context, bookingID uuid.UUID, actor *models.User, text string) (*models.ChatMessage, error)
	List(ctx context.Context, bookingID uuid.UUID, actor *models.User) ([]models.ChatMessage, error)
}

type Booking struct {
	bookings BookingService
	reviews  ReviewService
	chat     ChatService
	l        logger.Logger
}

func NewBooking(bookings BookingService, reviews ReviewService, chat ChatService, l logger.Logger) *Booking {
	return &Booking{
		bookings: bookings,
		reviews:  reviews,
		chat:     chat,
		l:        l,
	}
}

// List godoc
// @Summary      List my bookings
// @Description  Bookings the caller drives or ordered, newest first
// @Tags         Bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.BookingResponse
// @Router       /bookings [get]
func (h *Booking) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_bookings")
	user := models.UserFromContext(ctx)

	bookings, err := h.bookings.ListForActor(ctx, user)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list bookings", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"bookings": dto.BookingsFromModel(bookings)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Get godoc
// @Summary      Get booking
// @Tags         Bookings
// @Produce      json
// @Security     BearerAuth
// @Param        booking_id  path  string  true  "booking ID"
// @Success      200  {object}  dto.BookingResponse
// @Router       /bookings/{booking_id} [get]
func (h *Booking) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_booking")
	user := models.UserFromContext(ctx)

	bookingID, ok := pathID(w, r, "booking_id")
	if !ok {
		return
	}

	booking, err := h.bookings.Get(ctx, bookingID, user)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"booking": dto.BookingFromModel(booking)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// UpdateStatus godoc
// @Summary      Update booking status
// @Description  Assigned driver completes or cancels the booking
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        booking_id  path  string  true  "booking ID"
// @Param        request  body  dto.BookingStatusUpdateRequest  true  "new status"
// @Success      200  {object}  dto.BookingResponse
// @Failure      409  {object}  map[string]string
// @Router       /bookings/{booking_id}/status [patch]
func (h *Booking) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_booking_status")
	user := models.UserFromContext(ctx)

	bookingID, ok := pathID(w, r, "booking_id")
	if !ok {
		return
	}

	req := &dto.BookingStatusUpdateRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateBookingStatusUpdate(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	booking, err := h.bookings.UpdateStatus(ctx, bookingID, user, types.BookingStatus(req.Status))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update booking status", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"booking": dto.BookingFromModel(booking)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Cancel godoc
// @Summary      Cancel booking
// @Description  Customer cancels an ongoing booking
// @Tags         Bookings
// @Produce      json
// @Security     BearerAuth
// @Param        booking_id  path  string  true  "booking ID"
// @Success      200  {object}  dto.BookingResponse
// @Failure      409  {object}  map[string]string
// @Router       /bookings/{booking_id}/cancel [post]
func (h *Booking) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "cancel_booking")
	user := models.UserFromContext(ctx)

	bookingID, ok := pathID(w, r, "booking_id")
	if !ok {
		return
	}

	booking, err := h.bookings.Cancel(ctx, bookingID, user)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to cancel booking", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"booking": dto.BookingFromModel(booking)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// SubmitReview godoc
// @Summary      Review booking
// @Description  Customer rates the driver of a completed booking, once
// @Tags         Reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        booking_id  path  string  true  "booking ID"
// @Param        request  body  dto.ReviewRequest  true  "review payload"
// @Success      201  {object}  dto.ReviewResponse
// @Failure      409  {object}  map[string]string
// @Router       /bookings/{booking_id}/review [post]
func (h *Booking) SubmitReview(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "submit_review")
	user := models.UserFromContext(ctx)

	bookingID, ok := pathID(w, r, "booking_id")
	if !ok {
		return
	}

	req := &dto.ReviewRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateReview(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	review, err := h.reviews.Submit(ctx, bookingID, user, req.Rating, req.Feedback, req.ImageRef)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to submit review", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"review": dto.ReviewFromModel(review)}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// SendMessage godoc
// @Summary      Send chat message
// @Description  Adds a message to the booking's conversation
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        booking_id  path  string  true  "booking ID"
// @Param        request  body  dto.ChatMessageRequest  true  "message"
// @Success      201  {object}  dto.ChatMessageResponse
// @Router       /bookings/{booking_id}/messages [post]
func (h *Booking) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "send_chat_message")
	user := models.UserFromContext(ctx)

	bookingID, ok := pathID(w, r, "booking_id")
	if !ok {
		return
	}

	req := &dto.ChatMessageRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateChatMessage(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	msg, err := h.chat.Send(ctx, bookingID, user, req.Text)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to send chat message", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"message": dto.ChatMessageFromModel(msg)}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ListMessages godoc
// @Summary      List chat messages
// @Description  The booking's conversation, oldest first; clients poll this
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        booking_id  path  string  true  "booking ID"
// @Success      200  {array}  dto.ChatMessageResponse
// @Router       /bookings/{booking_id}/messages [get]
func (h *Booking) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_chat_messages")
	user := models.UserFromContext(ctx)

	bookingID, ok := pathID(w, r, "booking_id")
	if !ok {
		return
	}

	msgs, err := h.chat.List(ctx, bookingID, user)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"messages": dto.ChatMessagesFromModel(msgs)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

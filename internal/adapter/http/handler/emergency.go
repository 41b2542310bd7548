package handler

import (
	"context"
	"net/http"

	"github.com/rentadriver/ride-booking-system/internal/adapter/http/handler/dto"
	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/validator"
)

type EmergencyService interface {
	SetContact(ctx context.Context, user *models.User, phoneNumber string) (*models.EmergencyContact, error)
	GetContact(ctx context.Context, user *models.User) (*models.EmergencyContact, error)
	DeleteContact(ctx context.Context, user *models.User) error
	Trigger(ctx context.Context, user *models.User) (*models.EmergencyAlert, error)
	History(ctx context.Context, user *models.User) ([]models.EmergencyAlert, error)
}

type Emergency struct {
	emergency EmergencyService
	l         logger.Logger
}

func NewEmergency(emergency EmergencyService, l logger.Logger) *Emergency {
	return &Emergency{emergency: emergency, l: l}
}

// SetContact godoc
// @Summary      Set emergency contact
// @Description  Saves or replaces the caller's single emergency contact
// @Tags         Emergency
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  dto.EmergencyContactRequest  true  "contact"
// @Success      200  {object}  dto.EmergencyContactResponse
// @Router       /emergency/contact [put]
func (h *Emergency) SetContact(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_emergency_contact")
	user := models.UserFromContext(ctx)

	req := &dto.EmergencyContactRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateEmergencyContact(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	contact, err := h.emergency.SetContact(ctx, user, req.PhoneNumber)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to set emergency contact", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"contact": dto.EmergencyContactFromModel(contact)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// GetContact godoc
// @Summary      Get emergency contact
// @Tags         Emergency
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.EmergencyContactResponse
// @Failure      404  {object}  map[string]string
// @Router       /emergency/contact [get]
func (h *Emergency) GetContact(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_emergency_contact")
	user := models.UserFromContext(ctx)

	contact, err := h.emergency.GetContact(ctx, user)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"contact": dto.EmergencyContactFromModel(contact)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// DeleteContact godoc
// @Summary      Delete emergency contact
// @Tags         Emergency
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /emergency/contact [delete]
func (h *Emergency) DeleteContact(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "delete_emergency_contact")
	user := models.UserFromContext(ctx)

	if err := h.emergency.DeleteContact(ctx, user); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to delete emergency contact", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"message": "contact deleted"}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Trigger godoc
// @Summary      Trigger emergency alert
// @Description  Records an alert with the caller's last known location and notifies the contact
// @Tags         Emergency
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  dto.EmergencyAlertResponse
// @Failure      404  {object}  map[string]string
// @Router       /emergency/alert [post]
func (h *Emergency) Trigger(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "trigger_emergency_alert")
	user := models.UserFromContext(ctx)

	alert, err := h.emergency.Trigger(ctx, user)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to trigger emergency alert", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"alert": dto.EmergencyAlertFromModel(alert)}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// History godoc
// @Summary      List recent alerts
// @Description  The caller's most recent alerts, newest first
// @Tags         Emergency
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.EmergencyAlertResponse
// @Router       /emergency/alerts [get]
func (h *Emergency) History(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_emergency_alerts")
	user := models.UserFromContext(ctx)

	alerts, err := h.emergency.History(ctx, user)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list emergency alerts", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"alerts": dto.EmergencyAlertsFromModel(alerts)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

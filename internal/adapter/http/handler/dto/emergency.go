package dto

import (
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/pkg/validator"
)

type EmergencyContactRequest struct {
	PhoneNumber string `json:"phone_number"`
}

func ValidateEmergencyContact(v *validator.Validator, req *EmergencyContactRequest) {
	v.Check(req.PhoneNumber != "", "phone_number", "must be provided")
	v.Check(len(req.PhoneNumber) <= 20, "phone_number", "must not be more than 20 bytes long")
}

type EmergencyContactResponse struct {
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func EmergencyContactFromModel(c *models.EmergencyContact) EmergencyContactResponse {
	return EmergencyContactResponse{
		PhoneNumber: c.PhoneNumber,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type EmergencyAlertResponse struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Status      string    `json:"status"`
	TriggeredAt time.Time `json:"triggered_at"`
}

func EmergencyAlertFromModel(a *models.EmergencyAlert) EmergencyAlertResponse {
	return EmergencyAlertResponse{
		ID:          a.ID.String(),
		PhoneNumber: a.PhoneNumber,
		Status:      string(a.Status),
		TriggeredAt: a.TriggeredAt,
	}
}

func EmergencyAlertsFromModel(alerts []models.EmergencyAlert) []EmergencyAlertResponse {
	out := make([]EmergencyAlertResponse, 0, len(alerts))
	for i := range alerts {
		out = append(out, EmergencyAlertFromModel(&alerts[i]))
	}
	return out
}

type ChatMessageRequest struct {
	Text string `json:"text"`
}

func ValidateChatMessage(v *validator.Validator, req *ChatMessageRequest) {
	v.Check(req.Text != "", "text", "must be provided")
	v.Check(len(req.Text) <= 2000, "text", "must not be more than 2000 bytes long")
}

type ChatMessageResponse struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func ChatMessageFromModel(m *models.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        m.ID.String(),
		BookingID: m.BookingID.String(),
		SenderID:  m.SenderID.String(),
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func ChatMessagesFromModel(msgs []models.ChatMessage) []ChatMessageResponse {
	out := make([]ChatMessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, ChatMessageFromModel(&msgs[i]))
	}
	return out
}

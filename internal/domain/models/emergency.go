package models

import (
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

// EmergencyContact is the single phone number a user registers for alerts.
type EmergencyContact struct {
	UserID      uuid.UUID
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EmergencyAlert is an append-only record of a triggered alert. The actual
// delivery happens outside this system; we only record the intent.
type EmergencyAlert struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	PhoneNumber string
	Status      types.AlertStatus
	TriggeredAt time.Time
}

// AlertTriggeredMessage is published for the external SMS channel.
type AlertTriggeredMessage struct {
	AlertID     uuid.UUID         `json:"alert_id"`
	UserID      uuid.UUID         `json:"user_id"`
	PhoneNumber string            `json:"phone_number"`
	Status      types.AlertStatus `json:"status"`
	TriggeredAt time.Time         `json:"triggered_at"`
	Location    *Coordinates      `json:"location,omitempty"`
}

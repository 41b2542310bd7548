package emergency

import (
	"context"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type ContactRepo interface {
	// Upsert saves the user's single emergency contact, replacing any
	// previous number.
	Upsert(ctx context.Context, contact *models.EmergencyContact) error

	// Get returns the user's contact or types.ErrContactNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*models.EmergencyContact, error)

	// Delete removes the contact, types.ErrContactNotFound when absent.
	Delete(ctx context.Context, userID uuid.UUID) error
}

type AlertRepo interface {
	// Create appends an alert record and fills in the generated ID.
	Create(ctx context.Context, alert *models.EmergencyAlert) error

	// ListRecent returns the user's newest alerts, at most limit of them.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.EmergencyAlert, error)
}

// Publisher hands the alert to the external delivery channel.
type Publisher interface {
	PublishAlertTriggered(ctx context.Context, msg models.AlertTriggeredMessage) error
}

package models

import (
	"time"

	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

// ChatMessage belongs to a booking's conversation between the customer and
// the assigned driver. Clients poll for new messages; there is no push.
type ChatMessage struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	SenderID  uuid.UUID
	Text      string
	CreatedAt time.Time
}

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

const maxMessageLen = 2000

type MessageRepo interface {
	// Create appends a message to the booking's conversation.
	Create(ctx context.Context, msg *models.ChatMessage) error

	// ListByBooking returns the conversation oldest first.
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.ChatMessage, error)
}

type BookingRepo interface {
	// Get returns the booking or types.ErrBookingNotFound.
	Get(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
}

type RideRepo interface {
	// Get returns the ride request or types.ErrRideNotFound.
	Get(ctx context.Context, rideID uuid.UUID) (*models.RideRequest, error)
}

// ChatService is the per-booking conversation between the customer and the
// assigned driver. Clients poll List for new messages.
type ChatService struct {
	messages MessageRepo
	bookings BookingRepo
	rides    RideRepo
	l        logger.Logger
}

func NewChatService(messages MessageRepo, bookings BookingRepo, rides RideRepo, l logger.Logger) *ChatService {
	return &ChatService{
		messages: messages,
		bookings: bookings,
		rides:    rides,
		l:        l,
	}
}

// Send appends a message to the booking's conversation. Only the two
// parties of the booking may write.
func (s *ChatService) Send(ctx context.Context, bookingID uuid.UUID, actor *models.User, text string) (*models.ChatMessage, error) {
	ctx = wrap.WithAction(ctx, "send_chat_message")
	ctx = wrap.WithBookingID(ctx, bookingID.String())

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, wrap.Error(ctx, types.NewError(types.KindValidation, "message text is required"))
	}
	if len(text) > maxMessageLen {
		return nil, wrap.Error(ctx, types.NewError(types.KindValidation, "message text is too long"))
	}

	if err := s.authorize(ctx, bookingID, actor); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	msg := &models.ChatMessage{
		BookingID: bookingID,
		SenderID:  actor.ID,
		Text:      text,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not store chat message: %w", err))
	}
	return msg, nil
}

// List returns the booking's conversation, oldest first. Only the two
// parties of the booking may read.
func (s *ChatService) List(ctx context.Context, bookingID uuid.UUID, actor *models.User) ([]models.ChatMessage, error) {
	ctx = wrap.WithAction(ctx, "list_chat_messages")
	ctx = wrap.WithBookingID(ctx, bookingID.String())

	if err := s.authorize(ctx, bookingID, actor); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	msgs, err := s.messages.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return msgs, nil
}

func (s *ChatService) authorize(ctx context.Context, bookingID uuid.UUID, actor *models.User) error {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.DriverID == actor.ID {
		return nil
	}
	ride, err := s.rides.Get(ctx, booking.RideRequestID)
	if err != nil {
		return err
	}
	if ride.CustomerID != actor.ID {
		return types.ErrNotBookingParty
	}
	return nil
}

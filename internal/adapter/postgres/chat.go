package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	pgclient "github.com/rentadriver/ride-booking-system/pkg/postgres"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type ChatMessageRepo struct {
	db *pgxpool.Pool
}

func NewChatMessageRepo(db *pgxpool.Pool) *ChatMessageRepo {
	return &ChatMessageRepo{db: db}
}

func (r *ChatMessageRepo) Create(ctx context.Context, msg *models.ChatMessage) error {
	const op = "ChatMessageRepo.Create"

	const q = `
		INSERT INTO chat_messages (booking_id, sender_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, msg.BookingID, msg.SenderID, msg.Text).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		if pgclient.IsForeignKeyViolation(err) {
			return types.ErrBookingNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *ChatMessageRepo) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.ChatMessage, error) {
	const op = "ChatMessageRepo.ListByBooking"

	const q = `
		SELECT id, booking_id, sender_id, text, created_at
		FROM chat_messages
		WHERE booking_id = $1
		ORDER BY created_at;
	`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var msgs []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.BookingID, &m.SenderID, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msgs, nil
}

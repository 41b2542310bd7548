package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type EmergencyContactRepo struct {
	db *pgxpool.Pool
}

func NewEmergencyContactRepo(db *pgxpool.Pool) *EmergencyContactRepo {
	return &EmergencyContactRepo{db: db}
}

func (r *EmergencyContactRepo) Upsert(ctx context.Context, contact *models.EmergencyContact) error {
	const op = "EmergencyContactRepo.Upsert"

	const q = `
		INSERT INTO emergency_contacts (user_id, phone_number)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET
			phone_number = EXCLUDED.phone_number,
			updated_at = now()
		RETURNING created_at, updated_at;
	`

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, contact.UserID, contact.PhoneNumber).
		Scan(&contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *EmergencyContactRepo) Get(ctx context.Context, userID uuid.UUID) (*models.EmergencyContact, error) {
	const op = "EmergencyContactRepo.Get"

	const q = `
		SELECT user_id, phone_number, created_at, updated_at
		FROM emergency_contacts
		WHERE user_id = $1;
	`

	var c models.EmergencyContact

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, userID).Scan(&c.UserID, &c.PhoneNumber, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrContactNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

func (r *EmergencyContactRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	const op = "EmergencyContactRepo.Delete"

	const q = `DELETE FROM emergency_contacts WHERE user_id = $1;`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrContactNotFound
	}
	return nil
}

type EmergencyAlertRepo struct {
	db *pgxpool.Pool
}

func NewEmergencyAlertRepo(db *pgxpool.Pool) *EmergencyAlertRepo {
	return &EmergencyAlertRepo{db: db}
}

func (r *EmergencyAlertRepo) Create(ctx context.Context, alert *models.EmergencyAlert) error {
	const op = "EmergencyAlertRepo.Create"

	const q = `
		INSERT INTO emergency_alerts (user_id, phone_number, status)
		VALUES ($1, $2, $3)
		RETURNING id, triggered_at;
	`

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, alert.UserID, alert.PhoneNumber, alert.Status).
		Scan(&alert.ID, &alert.TriggeredAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *EmergencyAlertRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.EmergencyAlert, error) {
	const op = "EmergencyAlertRepo.ListRecent"

	const q = `
		SELECT id, user_id, phone_number, status, triggered_at
		FROM emergency_alerts
		WHERE user_id = $1
		ORDER BY triggered_at DESC
		LIMIT $2;
	`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var alerts []models.EmergencyAlert
	for rows.Next() {
		var a models.EmergencyAlert
		if err := rows.Scan(&a.ID, &a.UserID, &a.PhoneNumber, &a.Status, &a.TriggeredAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return alerts, nil
}

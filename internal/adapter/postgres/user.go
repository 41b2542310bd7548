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

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) (uuid.UUID, error) {
	const op = "UserRepo.Create"

	const q = `
		INSERT INTO users (email, role, status, password_hash)
		VALUES ($1, $2, COALESCE(NULLIF($3, ''), 'ACTIVE'), $4)
		RETURNING id, status, created_at, updated_at;
	`

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, u.Email, u.Role, u.Status, u.PasswordHash).
		Scan(&u.ID, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%s: %w", op, err)
	}
	return u.ID, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "UserRepo.GetByEmail"

	const q = `
		SELECT id, email, role, status, password_hash, last_latitude, last_longitude, created_at, updated_at
		FROM users
		WHERE email = $1;
	`

	return r.scanUser(ctx, op, q, email)
}

func (r *UserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	const op = "UserRepo.GetByID"

	const q = `
		SELECT id, email, role, status, password_hash, last_latitude, last_longitude, created_at, updated_at
		FROM users
		WHERE id = $1;
	`

	return r.scanUser(ctx, op, q, userID)
}

func (r *UserRepo) UpdateLastLocation(ctx context.Context, userID uuid.UUID, loc *models.Coordinates) error {
	const op = "UserRepo.UpdateLastLocation"

	const q = `
		UPDATE users
		SET last_latitude = $2,
		    last_longitude = $3,
		    updated_at = now()
		WHERE id = $1;
	`

	var lat, lon *float64
	if loc != nil {
		lat, lon = &loc.Latitude, &loc.Longitude
	}

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, userID, lat, lon)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) scanUser(ctx context.Context, op, q string, arg any) (*models.User, error) {
	var (
		u        models.User
		lat, lon *float64
	)

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, arg).Scan(
		&u.ID,
		&u.Email,
		&u.Role,
		&u.Status,
		&u.PasswordHash,
		&lat,
		&lon,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if lat != nil && lon != nil {
		u.LastLocation = &models.Coordinates{Latitude: *lat, Longitude: *lon}
	}
	return &u, nil
}

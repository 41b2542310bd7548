package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	pgclient "github.com/rentadriver/ride-booking-system/pkg/postgres"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type ReviewRepo struct {
	db *pgxpool.Pool
}

func NewReviewRepo(db *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{db: db}
}

func (r *ReviewRepo) Create(ctx context.Context, review *models.DriverReview) error {
	const op = "ReviewRepo.Create"

	const q = `
		INSERT INTO driver_reviews (booking_id, driver_id, customer_id, rating, feedback, image_ref)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`

	err := TxorDB(ctx, r.db).QueryRow(ctx, q,
		review.BookingID, review.DriverID, review.CustomerID, review.Rating, review.Feedback, review.ImageRef,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if pgclient.IsForeignKeyViolation(err) {
			return types.ErrBookingNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *ReviewRepo) Get(ctx context.Context, reviewID uuid.UUID) (*models.DriverReview, error) {
	const op = "ReviewRepo.Get"

	const q = `
		SELECT id, booking_id, driver_id, customer_id, rating, feedback, image_ref, created_at
		FROM driver_reviews
		WHERE id = $1;
	`

	return r.scanReview(ctx, op, q, reviewID)
}

func (r *ReviewRepo) GetByBooking(ctx context.Context, bookingID uuid.UUID) (*models.DriverReview, error) {
	const op = "ReviewRepo.GetByBooking"

	const q = `
		SELECT id, booking_id, driver_id, customer_id, rating, feedback, image_ref, created_at
		FROM driver_reviews
		WHERE booking_id = $1;
	`

	return r.scanReview(ctx, op, q, bookingID)
}

func (r *ReviewRepo) Delete(ctx context.Context, reviewID uuid.UUID) error {
	const op = "ReviewRepo.Delete"

	const q = `DELETE FROM driver_reviews WHERE id = $1;`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, reviewID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.DriverReview, error) {
	const op = "ReviewRepo.ListByDriver"

	const q = `
		SELECT id, booking_id, driver_id, customer_id, rating, feedback, image_ref, created_at
		FROM driver_reviews
		WHERE driver_id = $1
		ORDER BY created_at DESC;
	`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, driverID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var reviews []models.DriverReview
	for rows.Next() {
		var rev models.DriverReview
		if err := rows.Scan(&rev.ID, &rev.BookingID, &rev.DriverID, &rev.CustomerID, &rev.Rating, &rev.Feedback, &rev.ImageRef, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reviews, nil
}

func (r *ReviewRepo) scanReview(ctx context.Context, op, q string, arg any) (*models.DriverReview, error) {
	var rev models.DriverReview

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, arg).Scan(
		&rev.ID,
		&rev.BookingID,
		&rev.DriverID,
		&rev.CustomerID,
		&rev.Rating,
		&rev.Feedback,
		&rev.ImageRef,
		&rev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrReviewNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &rev, nil
}

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

type BookingRepo struct {
	db *pgxpool.Pool
}

func NewBookingRepo(db *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	const op = "BookingRepo.Create"

	const q = `
		INSERT INTO bookings (ride_request_id, driver_id, status, confirmed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, updated_at;
	`

	err := TxorDB(ctx, r.db).QueryRow(ctx, q,
		booking.RideRequestID, booking.DriverID, booking.Status, booking.ConfirmedAt,
	).Scan(&booking.ID, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *BookingRepo) Get(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	const op = "BookingRepo.Get"

	const q = `
		SELECT id, ride_request_id, driver_id, status, confirmed_at, updated_at
		FROM bookings
		WHERE id = $1;
	`

	return r.scanBooking(ctx, op, q, bookingID)
}

func (r *BookingRepo) GetByRide(ctx context.Context, rideID uuid.UUID) (*models.Booking, error) {
	const op = "BookingRepo.GetByRide"

	const q = `
		SELECT id, ride_request_id, driver_id, status, confirmed_at, updated_at
		FROM bookings
		WHERE ride_request_id = $1;
	`

	return r.scanBooking(ctx, op, q, rideID)
}

func (r *BookingRepo) SetStatus(ctx context.Context, bookingID uuid.UUID, status types.BookingStatus) error {
	const op = "BookingRepo.SetStatus"

	const q = `
		UPDATE bookings
		SET status = $2,
		    updated_at = now()
		WHERE id = $1;
	`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, bookingID, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.Booking, error) {
	const op = "BookingRepo.ListByDriver"

	const q = `
		SELECT id, ride_request_id, driver_id, status, confirmed_at, updated_at
		FROM bookings
		WHERE driver_id = $1
		ORDER BY confirmed_at DESC;
	`

	return r.scanBookings(ctx, op, q, driverID)
}

func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Booking, error) {
	const op = "BookingRepo.ListByCustomer"

	const q = `
		SELECT b.id, b.ride_request_id, b.driver_id, b.status, b.confirmed_at, b.updated_at
		FROM bookings b
		JOIN ride_requests rr ON rr.id = b.ride_request_id
		WHERE rr.customer_id = $1
		ORDER BY b.confirmed_at DESC;
	`

	return r.scanBookings(ctx, op, q, customerID)
}

func (r *BookingRepo) scanBooking(ctx context.Context, op, q string, arg any) (*models.Booking, error) {
	var b models.Booking

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, arg).Scan(
		&b.ID,
		&b.RideRequestID,
		&b.DriverID,
		&b.Status,
		&b.ConfirmedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrBookingNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}

func (r *BookingRepo) scanBookings(ctx context.Context, op, q string, arg any) ([]models.Booking, error) {
	rows, err := TxorDB(ctx, r.db).Query(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.RideRequestID, &b.DriverID, &b.Status, &b.ConfirmedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bookings, nil
}

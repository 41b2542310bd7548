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

type RideRepo struct {
	db *pgxpool.Pool
}

func NewRideRepo(db *pgxpool.Pool) *RideRepo {
	return &RideRepo{db: db}
}

func (r *RideRepo) Create(ctx context.Context, ride *models.RideRequest) error {
	const op = "RideRepo.Create"

	const q = `
		INSERT INTO ride_requests (customer_id, pickup, dropoff, pickup_latitude, pickup_longitude, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at;
	`

	var lat, lon *float64
	if ride.PickupLocation != nil {
		lat, lon = &ride.PickupLocation.Latitude, &ride.PickupLocation.Longitude
	}

	err := TxorDB(ctx, r.db).QueryRow(ctx, q,
		ride.CustomerID, ride.Pickup, ride.Dropoff, lat, lon, ride.Status,
	).Scan(&ride.ID, &ride.CreatedAt, &ride.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RideRepo) Get(ctx context.Context, rideID uuid.UUID) (*models.RideRequest, error) {
	const op = "RideRepo.Get"

	const q = `
		SELECT id, customer_id, pickup, dropoff, pickup_latitude, pickup_longitude, status, created_at, updated_at
		FROM ride_requests
		WHERE id = $1;
	`

	var (
		ride     models.RideRequest
		lat, lon *float64
	)

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, rideID).Scan(
		&ride.ID,
		&ride.CustomerID,
		&ride.Pickup,
		&ride.Dropoff,
		&lat,
		&lon,
		&ride.Status,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if lat != nil && lon != nil {
		ride.PickupLocation = &models.Coordinates{Latitude: *lat, Longitude: *lon}
	}
	return &ride, nil
}

func (r *RideRepo) UpdateLocations(ctx context.Context, rideID uuid.UUID, pickup, dropoff string, pickupLoc *models.Coordinates) error {
	const op = "RideRepo.UpdateLocations"

	const q = `
		UPDATE ride_requests
		SET pickup = $2,
		    dropoff = $3,
		    pickup_latitude = $4,
		    pickup_longitude = $5,
		    updated_at = now()
		WHERE id = $1;
	`

	var lat, lon *float64
	if pickupLoc != nil {
		lat, lon = &pickupLoc.Latitude, &pickupLoc.Longitude
	}

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, rideID, pickup, dropoff, lat, lon)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrRideNotFound
	}
	return nil
}

func (r *RideRepo) SetStatus(ctx context.Context, rideID uuid.UUID, status types.RideStatus) error {
	const op = "RideRepo.SetStatus"

	const q = `
		UPDATE ride_requests
		SET status = $2,
		    updated_at = now()
		WHERE id = $1;
	`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, rideID, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrRideNotFound
	}
	return nil
}

// AcceptPending is the conditional PENDING -> ACCEPTED transition. The
// WHERE clause on status makes concurrent accepts race on the row: only
// one update reports an affected row.
func (r *RideRepo) AcceptPending(ctx context.Context, rideID uuid.UUID) (bool, error) {
	const op = "RideRepo.AcceptPending"

	const q = `
		UPDATE ride_requests
		SET status = $2,
		    updated_at = now()
		WHERE id = $1 AND status = $3;
	`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, rideID, types.RideAccepted, types.RidePending)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListOpenWithPickup returns pending rides that carry pickup coordinates,
// oldest first, for the driver-side match finder.
func (r *RideRepo) ListOpenWithPickup(ctx context.Context) ([]models.RideRequest, error) {
	const op = "RideRepo.ListOpenWithPickup"

	const q = `
		SELECT id, customer_id, pickup, dropoff, pickup_latitude, pickup_longitude, status, created_at, updated_at
		FROM ride_requests
		WHERE status = $1
		  AND pickup_latitude IS NOT NULL
		  AND pickup_longitude IS NOT NULL
		ORDER BY created_at;
	`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, types.RidePending)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var rides []models.RideRequest
	for rows.Next() {
		var (
			ride     models.RideRequest
			lat, lon *float64
		)
		if err := rows.Scan(
			&ride.ID,
			&ride.CustomerID,
			&ride.Pickup,
			&ride.Dropoff,
			&lat,
			&lon,
			&ride.Status,
			&ride.CreatedAt,
			&ride.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if lat != nil && lon != nil {
			ride.PickupLocation = &models.Coordinates{Latitude: *lat, Longitude: *lon}
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rides, nil
}

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

type DriverProfileRepo struct {
	db *pgxpool.Pool
}

func NewDriverProfileRepo(db *pgxpool.Pool) *DriverProfileRepo {
	return &DriverProfileRepo{db: db}
}

func (r *DriverProfileRepo) Get(ctx context.Context, userID uuid.UUID) (*models.DriverProfile, error) {
	const op = "DriverProfileRepo.Get"

	const q = `
		SELECT user_id, full_name, license_number, vehicle_details, address, nid_number, picture_ref,
		       latitude, longitude, created_at, updated_at
		FROM driver_profiles
		WHERE user_id = $1;
	`

	var (
		p        models.DriverProfile
		lat, lon *float64
	)

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, userID).Scan(
		&p.UserID,
		&p.FullName,
		&p.LicenseNumber,
		&p.VehicleDetails,
		&p.Address,
		&p.NIDNumber,
		&p.PictureRef,
		&lat,
		&lon,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if lat != nil && lon != nil {
		p.Location = &models.Coordinates{Latitude: *lat, Longitude: *lon}
	}
	return &p, nil
}

func (r *DriverProfileRepo) Upsert(ctx context.Context, profile *models.DriverProfile) error {
	const op = "DriverProfileRepo.Upsert"

	const q = `
		INSERT INTO driver_profiles (user_id, full_name, license_number, vehicle_details, address, nid_number, picture_ref, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id)
		DO UPDATE SET
			full_name = EXCLUDED.full_name,
			license_number = EXCLUDED.license_number,
			vehicle_details = EXCLUDED.vehicle_details,
			address = EXCLUDED.address,
			nid_number = EXCLUDED.nid_number,
			picture_ref = EXCLUDED.picture_ref,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = now()
		RETURNING created_at, updated_at;
	`

	var lat, lon *float64
	if profile.Location != nil {
		lat, lon = &profile.Location.Latitude, &profile.Location.Longitude
	}

	err := TxorDB(ctx, r.db).QueryRow(ctx, q,
		profile.UserID,
		profile.FullName,
		profile.LicenseNumber,
		profile.VehicleDetails,
		profile.Address,
		profile.NIDNumber,
		profile.PictureRef,
		lat,
		lon,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *DriverProfileRepo) UpdateLocation(ctx context.Context, userID uuid.UUID, loc *models.Coordinates) error {
	const op = "DriverProfileRepo.UpdateLocation"

	const q = `
		UPDATE driver_profiles
		SET latitude = $2,
		    longitude = $3,
		    updated_at = now()
		WHERE user_id = $1;
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
		return types.ErrProfileNotFound
	}
	return nil
}

func (r *DriverProfileRepo) ClearPicture(ctx context.Context, userID uuid.UUID) error {
	const op = "DriverProfileRepo.ClearPicture"

	const q = `
		UPDATE driver_profiles
		SET picture_ref = '',
		    updated_at = now()
		WHERE user_id = $1;
	`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrProfileNotFound
	}
	return nil
}

// ListCandidates returns profiles with a known position, joined with the
// account email, in profile creation order.
func (r *DriverProfileRepo) ListCandidates(ctx context.Context) ([]models.DriverCandidate, error) {
	const op = "DriverProfileRepo.ListCandidates"

	const q = `
		SELECT dp.user_id, u.email, dp.full_name, dp.vehicle_details, dp.latitude, dp.longitude, dp.created_at
		FROM driver_profiles dp
		JOIN users u ON u.id = dp.user_id
		WHERE dp.latitude IS NOT NULL
		  AND dp.longitude IS NOT NULL
		ORDER BY dp.created_at;
	`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var candidates []models.DriverCandidate
	for rows.Next() {
		var (
			c        models.DriverCandidate
			lat, lon *float64
		)
		if err := rows.Scan(&c.UserID, &c.Email, &c.FullName, &c.VehicleDetails, &lat, &lon, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if lat != nil && lon != nil {
			c.Location = &models.Coordinates{Latitude: *lat, Longitude: *lon}
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return candidates, nil
}

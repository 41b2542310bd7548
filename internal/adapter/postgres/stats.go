package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
)

type StatsRepo struct {
	db *pgxpool.Pool
}

func NewStatsRepo(db *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{db: db}
}

// DriverStats aggregates one row per driver account: completed bookings
// and the average rating across all their reviews. Drivers with no
// bookings or reviews still show up with zero counts and a NULL average.
func (r *StatsRepo) DriverStats(ctx context.Context) ([]models.DriverStats, error) {
	const op = "StatsRepo.DriverStats"

	const q = `
		SELECT u.id,
		       u.email,
		       COALESCE(dp.full_name, ''),
		       COALESCE(b.completed, 0),
		       rv.avg_rating
		FROM users u
		LEFT JOIN driver_profiles dp ON dp.user_id = u.id
		LEFT JOIN (
			SELECT driver_id, COUNT(*) AS completed
			FROM bookings
			WHERE status = $1
			GROUP BY driver_id
		) b ON b.driver_id = u.id
		LEFT JOIN (
			SELECT driver_id, AVG(rating)::float8 AS avg_rating
			FROM driver_reviews
			GROUP BY driver_id
		) rv ON rv.driver_id = u.id
		WHERE u.role = $2
		ORDER BY u.created_at;
	`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, types.BookingCompleted, types.DriverRole)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var stats []models.DriverStats
	for rows.Next() {
		var s models.DriverStats
		if err := rows.Scan(&s.DriverID, &s.Email, &s.FullName, &s.TotalCompleted, &s.AvgRating); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

func (r *StatsRepo) PlatformTotals(ctx context.Context) (*models.PlatformTotals, error) {
	const op = "StatsRepo.PlatformTotals"

	const q = `
		SELECT (SELECT COUNT(*) FROM users WHERE role = $1),
		       (SELECT COUNT(*) FROM bookings WHERE status = $2),
		       (SELECT AVG(rating)::float8 FROM driver_reviews);
	`

	var totals models.PlatformTotals

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, types.DriverRole, types.BookingCompleted).
		Scan(&totals.TotalDrivers, &totals.TotalCompletedRides, &totals.AvgRating)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &totals, nil
}

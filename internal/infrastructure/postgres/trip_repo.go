package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawan0320/ecovoyage-backend/internal/domain/trip"
)

// TripRepository persists confirmation records. Append is a plain insert, so
// it is atomic across concurrent checkout sessions; ordering for List comes
// from created_at.
type TripRepository struct {
	pool *pgxpool.Pool
}

func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

func (r *TripRepository) Append(ctx context.Context, rec *trip.ConfirmationRecord) error {
	const sql = `
		INSERT INTO trip_history (
			id, user_id, flow, destination, travel_date,
			total_cost, currency, transaction_id, status, created_at
		)
		VALUES (
			$1, $2, $3, $4, NULLIF($5, '')::date,
			$6, $7, $8, $9, $10
		)
	`

	_, err := executor(ctx, r.pool).Exec(ctx, sql,
		rec.ID, nullIfEmpty(rec.UserID), rec.Flow, rec.Destination, rec.TravelDate,
		rec.TotalCost, rec.Currency, rec.TransactionID, string(rec.Status), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert trip record: %w", err)
	}

	return nil
}

const tripColumns = `
		id,
		COALESCE(user_id, ''),
		flow,
		destination,
		COALESCE(to_char(travel_date, 'YYYY-MM-DD'), ''),
		total_cost,
		currency,
		transaction_id,
		status,
		created_at
`

func scanTrip(row pgx.Row) (*trip.ConfirmationRecord, error) {
	var rec trip.ConfirmationRecord
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Flow, &rec.Destination, &rec.TravelDate,
		&rec.TotalCost, &rec.Currency, &rec.TransactionID, &rec.Status, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *TripRepository) List(ctx context.Context, limit int) ([]*trip.ConfirmationRecord, error) {
	sql := `SELECT` + tripColumns + `
		FROM trip_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("query trip history: %w", err)
	}
	defer rows.Close()

	var records []*trip.ConfirmationRecord
	for rows.Next() {
		rec, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func (r *TripRepository) GetByID(ctx context.Context, id string) (*trip.ConfirmationRecord, error) {
	sql := `SELECT` + tripColumns + `
		FROM trip_history
		WHERE id = $1
	`

	rec, err := scanTrip(r.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, trip.ErrNotFound
		}
		return nil, fmt.Errorf("get trip by id: %w", err)
	}

	return rec, nil
}

func (r *TripRepository) UpdateStatus(ctx context.Context, id string, status trip.Status) error {
	const sql = `
		UPDATE trip_history
		SET status = $2
		WHERE id = $1
	`

	tag, err := executor(ctx, r.pool).Exec(ctx, sql, id, string(status))
	if err != nil {
		return fmt.Errorf("update trip status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return trip.ErrNotFound
	}

	return nil
}

package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// ConfirmationRepo defines the persistence operations for attendance
// confirmations. Counts are always derived by query, never cached on the
// trip aggregate, to avoid staleness.
type ConfirmationRepo interface {
	// Upsert records a confirmation for (trip, email). Repeated
	// confirmations from the same address are idempotent.
	Upsert(ctx context.Context, c domain.Confirmation) error

	// ListByTrip returns all confirmations for a trip ordered by creation
	// time.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Confirmation, error)

	// CountByTrip returns the number of confirmed attendees for a trip.
	CountByTrip(ctx context.Context, tripID uuid.UUID) (int, error)
}

// pgConfirmationRepo is the Postgres implementation of ConfirmationRepo.
type pgConfirmationRepo struct {
	db db
}

// NewConfirmationRepo constructs a ConfirmationRepo backed by the provided
// db connection.
func NewConfirmationRepo(db db) ConfirmationRepo {
	return &pgConfirmationRepo{db: db}
}

// Upsert records the confirmation, keeping the first created_at on repeats.
func (r *pgConfirmationRepo) Upsert(ctx context.Context, c domain.Confirmation) error {
	const q = `
		INSERT INTO confirmations (trip_id, email, confirmed)
		VALUES (@trip_id, @email, @confirmed)
		ON CONFLICT (trip_id, email)
		DO UPDATE SET confirmed = EXCLUDED.confirmed`

	args := pgx.NamedArgs{
		"trip_id":   c.TripID,
		"email":     c.Email,
		"confirmed": c.Confirmed,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.ConfirmationRepo.Upsert: %w", err)
	}
	return nil
}

// ListByTrip returns all confirmations recorded for the trip.
func (r *pgConfirmationRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Confirmation, error) {
	const q = `
		SELECT trip_id, email, confirmed, created_at
		FROM confirmations
		WHERE trip_id = @trip_id
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ConfirmationRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var out []domain.Confirmation
	for rows.Next() {
		var c domain.Confirmation
		if err := rows.Scan(&c.TripID, &c.Email, &c.Confirmed, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("repo.ConfirmationRepo.ListByTrip: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ConfirmationRepo.ListByTrip: rows: %w", err)
	}
	return out, nil
}

// CountByTrip counts confirmed attendees.
func (r *pgConfirmationRepo) CountByTrip(ctx context.Context, tripID uuid.UUID) (int, error) {
	const q = `
		SELECT count(*)
		FROM confirmations
		WHERE trip_id = @trip_id AND confirmed`

	var n int
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.ConfirmationRepo.CountByTrip: %w", err)
	}
	return n, nil
}

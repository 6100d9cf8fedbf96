// Package repo contains the persistence layer: Postgres access for trips,
// activities, and confirmations, plus the in-memory itinerary session store.
// No business logic lives here, only SQL, type mapping, and cache plumbing.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and
// pgx.Tx. Accepting this interface instead of *pgxpool.Pool directly allows
// integration tests to pass a transaction that is rolled back after each
// test, giving free per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetByShareToken retrieves a trip by its share token.
	// Returns domain.ErrNotFound when the token matches nothing.
	GetByShareToken(ctx context.Context, token uuid.UUID) (domain.Trip, error)

	// List returns all trips ordered by creation time descending.
	List(ctx context.Context) ([]domain.Trip, error)

	// EnsureShareToken sets the trip's share token if it has none and
	// returns the effective token. A token is minted at most once per trip;
	// subsequent calls return the existing one.
	EnsureShareToken(ctx context.Context, id, token uuid.UUID) (uuid.UUID, error)

	// AddRecipients merges the given addresses into the trip's recipient
	// set.
	AddRecipients(ctx context.Context, id uuid.UUID, emails []string) error

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does
	// not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback
// isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, name, entries, total_cost, total_entries, share_token, recipients, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (name, entries, total_cost, total_entries, recipients)
		VALUES (@name, @entries, @total_cost, @total_entries, @recipients)
		RETURNING ` + tripColumns

	entries, err := json.Marshal(trip.Entries)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: marshal entries: %w", err)
	}
	recipients, err := json.Marshal(emptyIfNil(trip.Recipients))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: marshal recipients: %w", err)
	}

	args := pgx.NamedArgs{
		"name":          trip.Name,
		"entries":       entries,
		"total_cost":    trip.TotalCost,
		"total_entries": trip.TotalEntries,
		"recipients":    recipients,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByShareToken retrieves a trip by its share token.
func (r *pgTripRepo) GetByShareToken(ctx context.Context, token uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE share_token = @token`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"token": token})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByShareToken: %w", err)
	}
	return result, nil
}

// List returns all trips, most recently created first.
func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}
	return trips, nil
}

// EnsureShareToken mints the share token at most once. COALESCE keeps an
// existing token in place, so concurrent share requests converge on one
// value.
func (r *pgTripRepo) EnsureShareToken(ctx context.Context, id, token uuid.UUID) (uuid.UUID, error) {
	const q = `
		UPDATE trips
		SET share_token = COALESCE(share_token, @token),
		    updated_at  = now()
		WHERE id = @id
		RETURNING share_token`

	var effective pgtype.UUID
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "token": token}).Scan(&effective)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("repo.TripRepo.EnsureShareToken: %w", domain.ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("repo.TripRepo.EnsureShareToken: %w", err)
	}
	return uuid.UUID(effective.Bytes), nil
}

// AddRecipients merges email addresses into the trip's recipient set,
// skipping addresses already present.
func (r *pgTripRepo) AddRecipients(ctx context.Context, id uuid.UUID, emails []string) error {
	trip, err := r.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.AddRecipients: %w", err)
	}

	seen := make(map[string]bool, len(trip.Recipients))
	merged := trip.Recipients
	for _, e := range trip.Recipients {
		seen[e] = true
	}
	for _, e := range emails {
		if !seen[e] {
			merged = append(merged, e)
			seen[e] = true
		}
	}

	recipients, err := json.Marshal(emptyIfNil(merged))
	if err != nil {
		return fmt.Errorf("repo.TripRepo.AddRecipients: marshal: %w", err)
	}

	const q = `
		UPDATE trips
		SET recipients = @recipients,
		    updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "recipients": recipients})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.AddRecipients: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.AddRecipients: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// Entries and recipients are stored as JSONB.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t          domain.Trip
		id         pgtype.UUID
		entries    []byte
		shareToken pgtype.UUID
		recipients []byte
	)

	err := s.Scan(&id, &t.Name, &entries, &t.TotalCost, &t.TotalEntries,
		&shareToken, &recipients, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	if err := json.Unmarshal(entries, &t.Entries); err != nil {
		return domain.Trip{}, fmt.Errorf("unmarshal entries: %w", err)
	}
	if err := json.Unmarshal(recipients, &t.Recipients); err != nil {
		return domain.Trip{}, fmt.Errorf("unmarshal recipients: %w", err)
	}
	if shareToken.Valid {
		st := uuid.UUID(shareToken.Bytes)
		t.ShareToken = &st
	}
	return t, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pvandewal/dayout/backend/internal/domain"
	"github.com/pvandewal/dayout/backend/internal/repo"
)

// ShareResult is the outcome of a share request: the effective token and the
// public URL built from it.
type ShareResult struct {
	Token uuid.UUID `json:"token"`
	URL   string    `json:"url"`
}

// TripService implements business logic for persisted trips: lookup, listing,
// deletion, the share handshake, and attendance confirmations.
type TripService struct {
	trips         repo.TripRepo
	confirmations repo.ConfirmationRepo
	baseURL       string
}

// NewTripService constructs a TripService. baseURL is the public origin share
// links are built against.
func NewTripService(trips repo.TripRepo, confirmations repo.ConfirmationRepo, baseURL string) *TripService {
	return &TripService{
		trips:         trips,
		confirmations: confirmations,
		baseURL:       strings.TrimRight(baseURL, "/"),
	}
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns all trips, most recently created first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Delete removes a trip by ID.
// Returns domain.ErrNotFound if it does not exist.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Share mints the trip's share token on first call and returns the same
// token and URL on every subsequent call. The URL is the only thing the
// public projection is keyed by; the trip id never appears in it.
func (s *TripService) Share(ctx context.Context, id uuid.UUID) (ShareResult, error) {
	token, err := s.trips.EnsureShareToken(ctx, id, uuid.New())
	if err != nil {
		return ShareResult{}, fmt.Errorf("service.TripService.Share: %w", err)
	}
	return ShareResult{Token: token, URL: s.ShareURL(token)}, nil
}

// ShareURL builds the public URL for a share token.
func (s *TripService) ShareURL(token uuid.UUID) string {
	return s.baseURL + "/trip/" + token.String()
}

// Projection returns the public read-only view of a shared trip.
// Returns domain.ErrNotFound when the token matches nothing.
func (s *TripService) Projection(ctx context.Context, token uuid.UUID) (domain.SharedTrip, error) {
	trip, err := s.trips.GetByShareToken(ctx, token)
	if err != nil {
		return domain.SharedTrip{}, fmt.Errorf("service.TripService.Projection: %w", err)
	}
	return domain.SharedTrip{
		ID:           trip.ID,
		Name:         trip.Name,
		Entries:      trip.Entries,
		TotalCost:    trip.TotalCost,
		TotalEntries: trip.TotalEntries,
		CreatedAt:    trip.CreatedAt,
	}, nil
}

// Confirm records an attendance confirmation for (trip, email). Repeats are
// idempotent. The trip is looked up first so confirmations never dangle.
// Returns domain.ErrNotFound for an unknown trip.
func (s *TripService) Confirm(ctx context.Context, tripID uuid.UUID, email string) error {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	err := s.confirmations.Upsert(ctx, domain.Confirmation{
		TripID:    tripID,
		Email:     email,
		Confirmed: true,
	})
	if err != nil {
		return fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	return nil
}

// Attendance returns all recorded confirmations for a trip plus the count of
// confirmed attendees. Counts are derived by query on every read.
func (s *TripService) Attendance(ctx context.Context, tripID uuid.UUID) ([]domain.Confirmation, int, error) {
	all, err := s.confirmations.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.Attendance: %w", err)
	}
	confirmed, err := s.confirmations.CountByTrip(ctx, tripID)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.Attendance: %w", err)
	}
	if all == nil {
		all = []domain.Confirmation{}
	}
	return all, confirmed, nil
}

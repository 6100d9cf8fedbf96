package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvandewal/dayout/backend/internal/domain"
	"github.com/pvandewal/dayout/backend/internal/repo"
	"github.com/pvandewal/dayout/backend/internal/service"
)

// ---- mock repos ------------------------------------------------------------

// mockTripRepo is a hand-written test double for repo.TripRepo.
type mockTripRepo struct {
	create           func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	getByShareToken  func(ctx context.Context, token uuid.UUID) (domain.Trip, error)
	list             func(ctx context.Context) ([]domain.Trip, error)
	ensureShareToken func(ctx context.Context, id, token uuid.UUID) (uuid.UUID, error)
	addRecipients    func(ctx context.Context, id uuid.UUID, emails []string) error
	delete           func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) GetByShareToken(ctx context.Context, token uuid.UUID) (domain.Trip, error) {
	return m.getByShareToken(ctx, token)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) EnsureShareToken(ctx context.Context, id, token uuid.UUID) (uuid.UUID, error) {
	return m.ensureShareToken(ctx, id, token)
}
func (m *mockTripRepo) AddRecipients(ctx context.Context, id uuid.UUID, emails []string) error {
	return m.addRecipients(ctx, id, emails)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// mockConfirmationRepo is a hand-written test double for
// repo.ConfirmationRepo.
type mockConfirmationRepo struct {
	upsert      func(ctx context.Context, c domain.Confirmation) error
	listByTrip  func(ctx context.Context, tripID uuid.UUID) ([]domain.Confirmation, error)
	countByTrip func(ctx context.Context, tripID uuid.UUID) (int, error)
}

func (m *mockConfirmationRepo) Upsert(ctx context.Context, c domain.Confirmation) error {
	return m.upsert(ctx, c)
}
func (m *mockConfirmationRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Confirmation, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockConfirmationRepo) CountByTrip(ctx context.Context, tripID uuid.UUID) (int, error) {
	return m.countByTrip(ctx, tripID)
}

var _ repo.ConfirmationRepo = (*mockConfirmationRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func savedTrip() domain.Trip {
	return domain.Trip{
		ID:   uuid.New(),
		Name: "Saturday Adventure",
		Entries: []domain.ItineraryEntry{
			{
				RecommendationItem: domain.RecommendationItem{
					ID:    "static-zoo",
					Title: "City Zoo",
					Date:  "2025-12-06",
					Time:  "10:00 - 16:00",
					Price: "$24",
				},
				Origin: domain.OriginGenerated,
			},
		},
		TotalCost:    24,
		TotalEntries: 1,
		Recipients:   []string{"nana@example.com"},
		CreatedAt:    time.Date(2025, 11, 29, 12, 0, 0, 0, time.UTC),
	}
}

// ---- Share -----------------------------------------------------------------

func TestTripService_Share_MintsTokenAndURL(t *testing.T) {
	tripID := uuid.New()
	var minted uuid.UUID

	svc := service.NewTripService(
		&mockTripRepo{
			ensureShareToken: func(_ context.Context, id, token uuid.UUID) (uuid.UUID, error) {
				assert.Equal(t, tripID, id)
				minted = token
				return token, nil
			},
		},
		&mockConfirmationRepo{},
		"https://dayout.example.com/",
	)

	got, err := svc.Share(context.Background(), tripID)

	require.NoError(t, err)
	assert.Equal(t, minted, got.Token)
	assert.Equal(t, "https://dayout.example.com/trip/"+minted.String(), got.URL)
}

func TestTripService_Share_ReturnsExistingToken(t *testing.T) {
	existing := uuid.New()

	svc := service.NewTripService(
		&mockTripRepo{
			ensureShareToken: func(_ context.Context, _, _ uuid.UUID) (uuid.UUID, error) {
				return existing, nil
			},
		},
		&mockConfirmationRepo{},
		"https://dayout.example.com",
	)

	got, err := svc.Share(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, existing, got.Token)
}

func TestTripService_Share_NotFound(t *testing.T) {
	svc := service.NewTripService(
		&mockTripRepo{
			ensureShareToken: func(_ context.Context, _, _ uuid.UUID) (uuid.UUID, error) {
				return uuid.Nil, domain.ErrNotFound
			},
		},
		&mockConfirmationRepo{},
		"https://dayout.example.com",
	)

	_, err := svc.Share(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Projection ------------------------------------------------------------

func TestTripService_Projection_MapsPublicFields(t *testing.T) {
	trip := savedTrip()
	token := uuid.New()
	trip.ShareToken = &token

	svc := service.NewTripService(
		&mockTripRepo{
			getByShareToken: func(_ context.Context, tok uuid.UUID) (domain.Trip, error) {
				assert.Equal(t, token, tok)
				return trip, nil
			},
		},
		&mockConfirmationRepo{},
		"https://dayout.example.com",
	)

	got, err := svc.Projection(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.ID)
	assert.Equal(t, trip.Name, got.Name)
	assert.Equal(t, trip.Entries, got.Entries)
	assert.Equal(t, trip.TotalCost, got.TotalCost)
	assert.Equal(t, trip.TotalEntries, got.TotalEntries)
}

func TestTripService_Projection_UnknownToken(t *testing.T) {
	svc := service.NewTripService(
		&mockTripRepo{
			getByShareToken: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
				return domain.Trip{}, domain.ErrNotFound
			},
		},
		&mockConfirmationRepo{},
		"https://dayout.example.com",
	)

	_, err := svc.Projection(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Confirm ---------------------------------------------------------------

func TestTripService_Confirm_OK(t *testing.T) {
	trip := savedTrip()
	var stored domain.Confirmation

	svc := service.NewTripService(
		&mockTripRepo{
			getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
				return trip, nil
			},
		},
		&mockConfirmationRepo{
			upsert: func(_ context.Context, c domain.Confirmation) error {
				stored = c
				return nil
			},
		},
		"https://dayout.example.com",
	)

	err := svc.Confirm(context.Background(), trip.ID, "nana@example.com")

	require.NoError(t, err)
	assert.Equal(t, trip.ID, stored.TripID)
	assert.Equal(t, "nana@example.com", stored.Email)
	assert.True(t, stored.Confirmed)
}

func TestTripService_Confirm_TripNotFound(t *testing.T) {
	svc := service.NewTripService(
		&mockTripRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
				return domain.Trip{}, domain.ErrNotFound
			},
		},
		&mockConfirmationRepo{},
		"https://dayout.example.com",
	)

	err := svc.Confirm(context.Background(), uuid.New(), "nana@example.com")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- List / Delete ---------------------------------------------------------

func TestTripService_List_ReturnsEmptySlice(t *testing.T) {
	svc := service.NewTripService(
		&mockTripRepo{
			list: func(_ context.Context) ([]domain.Trip, error) {
				return nil, nil
			},
		},
		&mockConfirmationRepo{},
		"https://dayout.example.com",
	)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTripService_Delete_NotFound(t *testing.T) {
	svc := service.NewTripService(
		&mockTripRepo{
			delete: func(_ context.Context, _ uuid.UUID) error {
				return domain.ErrNotFound
			},
		},
		&mockConfirmationRepo{},
		"https://dayout.example.com",
	)

	err := svc.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Attendance ------------------------------------------------------------

func TestTripService_Attendance_DerivesCount(t *testing.T) {
	tripID := uuid.New()

	svc := service.NewTripService(
		&mockTripRepo{},
		&mockConfirmationRepo{
			listByTrip: func(_ context.Context, _ uuid.UUID) ([]domain.Confirmation, error) {
				return []domain.Confirmation{
					{TripID: tripID, Email: "a@example.com", Confirmed: true},
					{TripID: tripID, Email: "b@example.com", Confirmed: false},
				}, nil
			},
			countByTrip: func(_ context.Context, _ uuid.UUID) (int, error) {
				return 1, nil
			},
		},
		"https://dayout.example.com",
	)

	all, confirmed, err := svc.Attendance(context.Background(), tripID)

	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 1, confirmed)
}

func TestTripService_Attendance_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")

	svc := service.NewTripService(
		&mockTripRepo{},
		&mockConfirmationRepo{
			listByTrip: func(_ context.Context, _ uuid.UUID) ([]domain.Confirmation, error) {
				return nil, repoErr
			},
		},
		"https://dayout.example.com",
	)

	_, _, err := svc.Attendance(context.Background(), uuid.New())

	assert.ErrorIs(t, err, repoErr)
}

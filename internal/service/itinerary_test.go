package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvandewal/dayout/backend/internal/domain"
	"github.com/pvandewal/dayout/backend/internal/repo"
	"github.com/pvandewal/dayout/backend/internal/service"
)

// ---- helpers ---------------------------------------------------------------

func recommendation(id, title, date, price string) domain.RecommendationItem {
	return domain.RecommendationItem{
		ID:    id,
		Title: title,
		Date:  date,
		Time:  "10:00 - 12:00",
		Price: price,
		Location: domain.Location{
			Address:     "1 Park Lane",
			Coordinates: &domain.Coordinates{Lat: 52.37, Lon: 4.89},
		},
	}
}

func shortlist() []domain.RecommendationItem {
	return []domain.RecommendationItem{
		recommendation("static-zoo", "City Zoo", "2025-12-06", "$24"),
		recommendation("curated-7", "Science Center", "2025-12-06", "$18.50"),
		recommendation("gen-1", "Forest Walk", "2025-12-06", "Free"),
	}
}

// newItineraryService wires the service to an in-memory session store and the
// given trip repo mock. Pass nil when the test never reaches Save.
func newItineraryService(trips repo.TripRepo) *service.ItineraryService {
	return service.NewItineraryService(repo.NewSessionStore(time.Minute), trips)
}

// ---- Start -----------------------------------------------------------------

func TestItineraryService_Start_Discovering(t *testing.T) {
	svc := newItineraryService(nil)

	session := svc.Start(shortlist())

	assert.Equal(t, domain.StateDiscovering, session.State)
	assert.Equal(t, 0, session.Cursor)
	assert.Len(t, session.Candidates, 3)
	assert.Empty(t, session.Entries)

	got, err := svc.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
}

func TestItineraryService_Start_EmptyList_NoRecommendations(t *testing.T) {
	svc := newItineraryService(nil)

	session := svc.Start(nil)

	assert.Equal(t, domain.StateNoRecommendations, session.State)

	// The state is terminal: no curation is possible.
	_, err := svc.Decide(session.ID, true)
	assert.ErrorIs(t, err, domain.ErrSessionState)
}

func TestItineraryService_Get_Unknown(t *testing.T) {
	svc := newItineraryService(nil)

	_, err := svc.Get(uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Decide ----------------------------------------------------------------

func TestItineraryService_Decide_Lifecycle(t *testing.T) {
	svc := newItineraryService(nil)
	session := svc.Start(shortlist())

	// Accept, reject, accept: entries keep first-seen order.
	s1, err := svc.Decide(session.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StateDiscovering, s1.State)
	assert.Equal(t, 1, s1.Cursor)

	s2, err := svc.Decide(session.ID, false)
	require.NoError(t, err)
	assert.Len(t, s2.Entries, 1)

	s3, err := svc.Decide(session.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StateEditing, s3.State, "deciding the last candidate completes curation")
	require.Len(t, s3.Entries, 2)
	assert.Equal(t, "City Zoo", s3.Entries[0].Title)
	assert.Equal(t, "Forest Walk", s3.Entries[1].Title)
	assert.Equal(t, domain.OriginGenerated, s3.Entries[0].Origin)
}

func TestItineraryService_Decide_AfterCuration_Conflict(t *testing.T) {
	svc := newItineraryService(nil)
	session := svc.Start(shortlist()[:1])

	_, err := svc.Decide(session.ID, true)
	require.NoError(t, err)

	_, err = svc.Decide(session.ID, true)
	assert.ErrorIs(t, err, domain.ErrSessionState)
}

// ---- AddCustom -------------------------------------------------------------

func TestItineraryService_AddCustom_DefaultDateFromFirstEntry(t *testing.T) {
	svc := newItineraryService(nil)
	session := svc.Start(shortlist()[:1])
	_, err := svc.Decide(session.ID, true)
	require.NoError(t, err)

	got, err := svc.AddCustom(session.ID, domain.ItineraryEntry{
		RecommendationItem: domain.RecommendationItem{Title: "Picnic at Grandma's"},
	})

	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	added := got.Entries[1]
	assert.Equal(t, "2025-12-06", added.Date, "defaults to the first entry's date")
	assert.Equal(t, domain.OriginCustom, added.Origin)
	assert.True(t, added.MissingCoordinates)
	assert.NotEmpty(t, added.ID)
}

func TestItineraryService_AddCustom_DefaultDateTodayWhenEmpty(t *testing.T) {
	svc := newItineraryService(nil)
	session := svc.Start(shortlist()[:1])
	// Reject the only candidate: editing state, zero entries.
	_, err := svc.Decide(session.ID, false)
	require.NoError(t, err)

	got, err := svc.AddCustom(session.ID, domain.ItineraryEntry{
		RecommendationItem: domain.RecommendationItem{Title: "Backyard Campout"},
	})

	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, time.Now().UTC().Format(domain.DateLayout), got.Entries[0].Date)
}

func TestItineraryService_AddCustom_PriceAlwaysZero(t *testing.T) {
	svc := newItineraryService(nil)
	session := svc.Start(shortlist()[:1])
	_, err := svc.Decide(session.ID, true)
	require.NoError(t, err)

	got, err := svc.AddCustom(session.ID, domain.ItineraryEntry{
		RecommendationItem: domain.RecommendationItem{Title: "Fancy Dinner", Price: "$120"},
	})

	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Empty(t, got.Entries[1].Price)
	assert.InDelta(t, 24.0, got.TotalCost(), 0.001, "only the accepted zoo entry counts")
}

func TestItineraryService_AddCustom_DuringDiscovery(t *testing.T) {
	svc := newItineraryService(nil)
	session := svc.Start(shortlist())

	got, err := svc.AddCustom(session.ID, domain.ItineraryEntry{
		RecommendationItem: domain.RecommendationItem{Title: "Ice Cream Stop", Date: "2025-12-06"},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StateDiscovering, got.State, "custom entries do not interrupt curation")
	assert.Len(t, got.Entries, 1)
}

func TestItineraryService_AddCustom_BlankTitle(t *testing.T) {
	svc := newItineraryService(nil)
	session := svc.Start(shortlist())

	_, err := svc.AddCustom(session.ID, domain.ItineraryEntry{
		RecommendationItem: domain.RecommendationItem{Title: "   "},
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestItineraryService_AddCustom_BadDate(t *testing.T) {
	svc := newItineraryService(nil)
	session := svc.Start(shortlist())

	_, err := svc.AddCustom(session.ID, domain.ItineraryEntry{
		RecommendationItem: domain.RecommendationItem{Title: "Ice Cream Stop", Date: "next Saturday"},
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Reorder / DeleteEntry -------------------------------------------------

func TestItineraryService_Reorder_OnlyWhileEditing(t *testing.T) {
	svc := newItineraryService(nil)
	session := svc.Start(shortlist())

	_, err := svc.Reorder(session.ID, "2025-12-06", 0, 1)

	assert.ErrorIs(t, err, domain.ErrSessionState)
}

func TestItineraryService_Reorder_MovesWithinDate(t *testing.T) {
	svc := newItineraryService(nil)
	session := svc.Start(shortlist())
	for range 3 {
		_, err := svc.Decide(session.ID, true)
		require.NoError(t, err)
	}

	got, err := svc.Reorder(session.ID, "2025-12-06", 2, 0)

	require.NoError(t, err)
	assert.Equal(t, "Forest Walk", got.Entries[0].Title)
	assert.Equal(t, "City Zoo", got.Entries[1].Title)
}

func TestItineraryService_DeleteEntry_Positional(t *testing.T) {
	svc := newItineraryService(nil)
	session := svc.Start(shortlist())
	for range 3 {
		_, err := svc.Decide(session.ID, true)
		require.NoError(t, err)
	}

	got, err := svc.DeleteEntry(session.ID, "2025-12-06", 1)

	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "City Zoo", got.Entries[0].Title)
	assert.Equal(t, "Forest Walk", got.Entries[1].Title)

	_, err = svc.DeleteEntry(session.ID, "2025-12-06", 5)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Save ------------------------------------------------------------------

func TestItineraryService_Save_SnapshotsTotals(t *testing.T) {
	var created domain.Trip
	trips := &mockTripRepo{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			created = trip
			trip.ID = uuid.New()
			return trip, nil
		},
	}
	svc := newItineraryService(trips)

	session := svc.Start(shortlist())
	for range 3 {
		_, err := svc.Decide(session.ID, true)
		require.NoError(t, err)
	}

	trip, err := svc.Save(context.Background(), session.ID, "Saturday Adventure")

	require.NoError(t, err)
	assert.Equal(t, "Saturday Adventure", created.Name)
	assert.Equal(t, 3, created.TotalEntries)
	assert.InDelta(t, 42.50, created.TotalCost, 0.001, "24 + 18.50 + Free")

	got, err := svc.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePersisted, got.State)
	require.NotNil(t, got.TripID)
	assert.Equal(t, trip.ID, *got.TripID)
}

func TestItineraryService_Save_OnlyWhileEditing(t *testing.T) {
	svc := newItineraryService(&mockTripRepo{})
	session := svc.Start(shortlist())

	_, err := svc.Save(context.Background(), session.ID, "Too Early")

	assert.ErrorIs(t, err, domain.ErrSessionState)
}

func TestItineraryService_Save_BlankName(t *testing.T) {
	svc := newItineraryService(&mockTripRepo{})
	session := svc.Start(shortlist()[:1])
	_, err := svc.Decide(session.ID, true)
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), session.ID, "  ")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestItineraryService_Save_EmptyItinerary(t *testing.T) {
	svc := newItineraryService(&mockTripRepo{})
	session := svc.Start(shortlist()[:1])
	_, err := svc.Decide(session.ID, false)
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), session.ID, "Nothing Kept")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Abandon ---------------------------------------------------------------

func TestItineraryService_Abandon(t *testing.T) {
	svc := newItineraryService(nil)
	session := svc.Start(shortlist())

	svc.Abandon(session.ID)

	_, err := svc.Get(session.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

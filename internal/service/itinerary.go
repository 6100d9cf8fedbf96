package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pvandewal/dayout/backend/internal/domain"
	"github.com/pvandewal/dayout/backend/internal/repo"
)

// ItineraryService drives the itinerary session through its lifecycle:
// one-by-one curation of the generated shortlist, then free editing of the
// kept sequence, then an explicit save that snapshots the session into a
// Trip. All intermediate state lives in the session store; nothing touches
// the database before Save.
type ItineraryService struct {
	store repo.SessionStore
	trips repo.TripRepo
}

// NewItineraryService constructs an ItineraryService.
func NewItineraryService(store repo.SessionStore, trips repo.TripRepo) *ItineraryService {
	return &ItineraryService{store: store, trips: trips}
}

// Start opens a new session over the given recommendation list.
// An empty list puts the session directly into the terminal
// no-recommendations state; the session is stored either way so the client
// can read back why discovery never began.
func (s *ItineraryService) Start(recommendations []domain.RecommendationItem) *domain.Session {
	session := &domain.Session{
		ID:         uuid.New(),
		State:      domain.StateDiscovering,
		Candidates: recommendations,
		CreatedAt:  time.Now().UTC(),
	}
	if len(recommendations) == 0 {
		session.State = domain.StateNoRecommendations
	}
	s.store.Put(session)
	return session
}

// Get returns the session snapshot.
// Returns domain.ErrNotFound for unknown or expired sessions.
func (s *ItineraryService) Get(id uuid.UUID) (*domain.Session, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Get: %w", err)
	}
	return session, nil
}

// Abandon tears the session down. Abandoning an unknown session is a no-op,
// matching the store's delete semantics.
func (s *ItineraryService) Abandon(id uuid.UUID) {
	s.store.Delete(id)
}

// Decide records an accept or reject for the candidate under the cursor and
// advances it. Accepted candidates append to the entries in first-seen order.
// Deciding the last candidate completes curation and moves the session to the
// editing state.
// Returns domain.ErrSessionState outside the discovering state.
func (s *ItineraryService) Decide(id uuid.UUID, accept bool) (*domain.Session, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Decide: %w", err)
	}
	if session.State != domain.StateDiscovering {
		return nil, fmt.Errorf("service.ItineraryService.Decide: %w: state is %s",
			domain.ErrSessionState, session.State)
	}

	if accept {
		session.Entries = append(session.Entries, domain.ItineraryEntry{
			RecommendationItem: session.Candidates[session.Cursor],
			Origin:             domain.OriginGenerated,
		})
	}
	session.Cursor++
	if session.Cursor >= len(session.Candidates) {
		session.State = domain.StateEditing
	}

	s.store.Put(session)
	return session, nil
}

// AddCustom appends a user-authored entry. Custom entries are legal both
// during discovery and during editing. A blank date defaults to the date of
// the first existing entry, or today when the itinerary is empty. Custom
// entries always carry a zero price, whatever the caller put in the entry.
// Returns domain.ErrValidation for a blank title or a malformed date, and
// domain.ErrSessionState in persisted or no-recommendations sessions.
func (s *ItineraryService) AddCustom(id uuid.UUID, entry domain.ItineraryEntry) (*domain.Session, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.AddCustom: %w", err)
	}
	if session.State != domain.StateDiscovering && session.State != domain.StateEditing {
		return nil, fmt.Errorf("service.ItineraryService.AddCustom: %w: state is %s",
			domain.ErrSessionState, session.State)
	}

	if strings.TrimSpace(entry.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if entry.Date == "" {
		entry.Date = defaultEntryDate(session.Entries)
	}
	if !domain.IsCalendarDate(entry.Date) {
		return nil, fmt.Errorf("%w: date %q is not a YYYY-MM-DD calendar date",
			domain.ErrValidation, entry.Date)
	}

	entry.ID = "custom-" + uuid.NewString()
	entry.Origin = domain.OriginCustom
	entry.Price = ""
	if entry.Location.Coordinates == nil {
		entry.MissingCoordinates = true
	}

	session.Entries = append(session.Entries, entry)
	s.store.Put(session)
	return session, nil
}

// Reorder moves one entry within its date group.
// Returns domain.ErrSessionState outside the editing state and
// domain.ErrValidation for an unknown date or out-of-range index.
func (s *ItineraryService) Reorder(id uuid.UUID, date string, from, to int) (*domain.Session, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Reorder: %w", err)
	}
	if session.State != domain.StateEditing {
		return nil, fmt.Errorf("service.ItineraryService.Reorder: %w: state is %s",
			domain.ErrSessionState, session.State)
	}

	reordered, err := domain.Reorder(session.Entries, date, from, to)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Reorder: %w", err)
	}
	session.Entries = reordered
	s.store.Put(session)
	return session, nil
}

// DeleteEntry removes the entry at the (date, index) coordinate.
// Returns domain.ErrSessionState outside the editing state and
// domain.ErrValidation for an unknown date or out-of-range index.
func (s *ItineraryService) DeleteEntry(id uuid.UUID, date string, index int) (*domain.Session, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.DeleteEntry: %w", err)
	}
	if session.State != domain.StateEditing {
		return nil, fmt.Errorf("service.ItineraryService.DeleteEntry: %w: state is %s",
			domain.ErrSessionState, session.State)
	}

	remaining, err := domain.DeleteAt(session.Entries, date, index)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.DeleteEntry: %w", err)
	}
	session.Entries = remaining
	s.store.Put(session)
	return session, nil
}

// Save snapshots the session into a persisted Trip. Totals are derived from
// the entries at this instant and stored on the trip. The session survives in
// the persisted state, carrying the new trip id, until its TTL runs out.
// Returns domain.ErrSessionState outside the editing state and
// domain.ErrValidation for a blank name or an empty itinerary.
func (s *ItineraryService) Save(ctx context.Context, id uuid.UUID, name string) (domain.Trip, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ItineraryService.Save: %w", err)
	}
	if session.State != domain.StateEditing {
		return domain.Trip{}, fmt.Errorf("service.ItineraryService.Save: %w: state is %s",
			domain.ErrSessionState, session.State)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Trip{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if len(session.Entries) == 0 {
		return domain.Trip{}, fmt.Errorf("%w: itinerary has no entries", domain.ErrValidation)
	}

	trip, err := s.trips.Create(ctx, domain.Trip{
		Name:         name,
		Entries:      session.Entries,
		TotalCost:    session.TotalCost(),
		TotalEntries: len(session.Entries),
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ItineraryService.Save: %w", err)
	}

	session.State = domain.StatePersisted
	session.TripID = &trip.ID
	s.store.Put(session)
	return trip, nil
}

// defaultEntryDate is the date a custom entry lands on when the user gave
// none: the first existing entry's date, or today for an empty itinerary.
func defaultEntryDate(entries []domain.ItineraryEntry) string {
	if len(entries) > 0 {
		return entries[0].Date
	}
	return time.Now().UTC().Format(domain.DateLayout)
}

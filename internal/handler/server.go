// Package handler implements the HTTP layer of the day planner API.
// All handlers are methods on Server; methods are split into domain-specific
// files (recommend.go, itinerary.go, trip.go, ...) but share the same struct
// so they can access its dependencies. Handlers decode and validate requests,
// call a servicer, and map sentinel errors onto status codes. No business
// logic lives here.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pvandewal/dayout/backend/internal/domain"
	"github.com/pvandewal/dayout/backend/internal/service"
)

// RecommendationServicer defines the generation pipeline the recommendation
// handler depends on. Defining interfaces here, in the consumer package,
// follows the Go convention: "accept interfaces, return concrete types".
// It lets handler tests inject a mock without a provider key or a database.
type RecommendationServicer interface {
	Recommend(ctx context.Context, req domain.RecommendationRequest) ([]domain.RecommendationItem, error)
}

// ItineraryServicer defines the session operations the itinerary handlers
// depend on.
type ItineraryServicer interface {
	Start(recommendations []domain.RecommendationItem) *domain.Session
	Get(id uuid.UUID) (*domain.Session, error)
	Abandon(id uuid.UUID)
	Decide(id uuid.UUID, accept bool) (*domain.Session, error)
	AddCustom(id uuid.UUID, entry domain.ItineraryEntry) (*domain.Session, error)
	Reorder(id uuid.UUID, date string, from, to int) (*domain.Session, error)
	DeleteEntry(id uuid.UUID, date string, index int) (*domain.Session, error)
	Save(ctx context.Context, id uuid.UUID, name string) (domain.Trip, error)
}

// TripServicer defines the persisted-trip operations the trip handlers depend
// on.
type TripServicer interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Share(ctx context.Context, id uuid.UUID) (service.ShareResult, error)
	Projection(ctx context.Context, token uuid.UUID) (domain.SharedTrip, error)
	Confirm(ctx context.Context, tripID uuid.UUID, email string) error
	Attendance(ctx context.Context, tripID uuid.UUID) ([]domain.Confirmation, int, error)
}

// CalendarServicer renders a trip's iCalendar export.
type CalendarServicer interface {
	ICS(ctx context.Context, tripID uuid.UUID) (string, error)
}

// InviteServicer fans invitation email out to recipients.
type InviteServicer interface {
	Invite(ctx context.Context, tripID uuid.UUID, emails []string) (service.InviteOutcome, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	recommendations RecommendationServicer
	itineraries     ItineraryServicer
	trips           TripServicer
	calendar        CalendarServicer
	invites         InviteServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	recommendations RecommendationServicer,
	itineraries ItineraryServicer,
	trips TripServicer,
	calendar CalendarServicer,
	invites InviteServicer,
) *Server {
	return &Server{
		recommendations: recommendations,
		itineraries:     itineraries,
		trips:           trips,
		calendar:        calendar,
		invites:         invites,
	}
}

// Routes mounts every endpoint on a fresh chi router. Wire middleware around
// the returned handler in main.go.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/recommendations", s.CreateRecommendations)

		r.Route("/itineraries", func(r chi.Router) {
			r.Post("/", s.StartItinerary)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.GetItinerary)
				r.Delete("/", s.AbandonItinerary)
				r.Post("/decisions", s.DecideCandidate)
				r.Post("/entries", s.AddCustomEntry)
				r.Post("/reorder", s.ReorderEntries)
				r.Post("/deletions", s.DeleteEntry)
				r.Post("/save", s.SaveItinerary)
			})
		})

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Delete("/", s.DeleteTrip)
				r.Post("/share", s.ShareTrip)
				r.Get("/calendar.ics", s.ExportCalendar)
				r.Post("/invitations", s.InviteRecipients)
			})
		})

		r.Get("/share/{token}", s.GetSharedTrip)
		r.Post("/confirmations", s.CreateConfirmation)
	})

	return r
}

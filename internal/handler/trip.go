package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// ListTrips handles GET /api/trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trips": trips})
}

// tripResponse decorates a trip with its derived attendance figures.
type tripResponse struct {
	domain.Trip
	Confirmations  []domain.Confirmation `json:"confirmations"`
	ConfirmedCount int                   `json:"confirmedCount"`
}

// GetTrip handles GET /api/trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "tripID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	confirmations, confirmed, err := s.trips.Attendance(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tripResponse{
		Trip:           trip,
		Confirmations:  confirmations,
		ConfirmedCount: confirmed,
	})
}

// DeleteTrip handles DELETE /api/trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "tripID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ShareTrip handles POST /api/trips/{tripID}/share. The first call mints the
// token; every call thereafter returns the same token and URL.
func (s *Server) ShareTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "tripID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	result, err := s.trips.Share(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetSharedTrip handles GET /api/share/{token}: the public read-only
// projection. No mutation route exists under this path.
func (s *Server) GetSharedTrip(w http.ResponseWriter, r *http.Request) {
	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		// An unparseable token is indistinguishable from an unknown one to
		// the outside world.
		writeError(w, domain.ErrNotFound)
		return
	}

	projection, err := s.trips.Projection(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projection)
}

// inviteRequest is the body of POST /api/trips/{tripID}/invitations.
type inviteRequest struct {
	Emails []string `json:"emails" validate:"required,min=1,dive,email"`
}

// InviteRecipients handles POST /api/trips/{tripID}/invitations.
func (s *Server) InviteRecipients(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "tripID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	var req inviteRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	outcome, err := s.invites.Invite(r.Context(), id, req.Emails)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// confirmationRequest is the body of POST /api/confirmations.
type confirmationRequest struct {
	TripID string `json:"tripId" validate:"required,uuid"`
	Email  string `json:"email" validate:"required,email"`
}

// CreateConfirmation handles POST /api/confirmations. Recipients reach this
// endpoint from the invitation email; repeats are idempotent.
func (s *Server) CreateConfirmation(w http.ResponseWriter, r *http.Request) {
	var req confirmationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeConfirmationFailure(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		writeConfirmationFailure(w, http.StatusUnprocessableEntity, "tripId is not a valid UUID")
		return
	}

	if err := s.trips.Confirm(r.Context(), tripID, req.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeConfirmationFailure(w, http.StatusNotFound, unwrapMessage(err))
		case errors.Is(err, domain.ErrValidation):
			writeConfirmationFailure(w, http.StatusUnprocessableEntity, unwrapMessage(err))
		default:
			slog.Error("confirmation failed", "error", err)
			writeConfirmationFailure(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	writeJSON(w, http.StatusOK, confirmationResponse{Success: true})
}

// confirmationResponse is the body of POST /api/confirmations, success and
// failure alike. The emailed confirmation link renders this endpoint's
// outcome from the success flag, so failures do not use the usual error
// envelope here.
type confirmationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func writeConfirmationFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, confirmationResponse{Success: false, Error: message})
}

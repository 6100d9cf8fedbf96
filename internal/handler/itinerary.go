package handler

import (
	"net/http"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// sessionResponse is the snapshot every itinerary endpoint returns. Entries
// are served grouped by date because that is the shape the editing UI renders;
// the flat sequence never crosses the API boundary.
type sessionResponse struct {
	ID    string              `json:"id"`
	State domain.SessionState `json:"state"`
	// Candidate is the item currently awaiting a decision; omitted outside
	// the discovering state.
	Candidate *domain.RecommendationItem `json:"candidate,omitempty"`
	// Remaining counts candidates still undecided, the current one included.
	Remaining int              `json:"remaining"`
	Days      []domain.DayGroup `json:"days"`
	TotalCost float64          `json:"totalCost"`
	TripID    string           `json:"tripId,omitempty"`
}

// sessionToResponse builds the snapshot DTO for a session.
func sessionToResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID.String(),
		State:     s.State,
		Days:      domain.GroupByDate(s.Entries),
		TotalCost: s.TotalCost(),
	}
	if s.State == domain.StateDiscovering {
		c := s.Candidates[s.Cursor]
		resp.Candidate = &c
		resp.Remaining = len(s.Candidates) - s.Cursor
	}
	if s.TripID != nil {
		resp.TripID = s.TripID.String()
	}
	return resp
}

// startItineraryRequest is the body of POST /api/itineraries: the shortlist
// the client received from the recommendations endpoint.
type startItineraryRequest struct {
	Recommendations []domain.RecommendationItem `json:"recommendations"`
}

// StartItinerary handles POST /api/itineraries.
func (s *Server) StartItinerary(w http.ResponseWriter, r *http.Request) {
	var req startItineraryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	session := s.itineraries.Start(req.Recommendations)
	writeJSON(w, http.StatusCreated, sessionToResponse(session))
}

// GetItinerary handles GET /api/itineraries/{sessionID}.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "sessionID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	session, err := s.itineraries.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(session))
}

// AbandonItinerary handles DELETE /api/itineraries/{sessionID}.
// Abandoning an unknown session succeeds; the outcome is the same.
func (s *Server) AbandonItinerary(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "sessionID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	s.itineraries.Abandon(id)
	w.WriteHeader(http.StatusNoContent)
}

// decisionRequest is the body of POST .../decisions. Accept is a pointer so a
// missing field is distinguishable from an explicit reject.
type decisionRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

// DecideCandidate handles POST /api/itineraries/{sessionID}/decisions.
func (s *Server) DecideCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "sessionID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	var req decisionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	session, err := s.itineraries.Decide(id, *req.Accept)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(session))
}

// customEntryRequest is the body of POST .../entries. There is no price
// field: custom entries always carry a zero price.
type customEntryRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// AddCustomEntry handles POST /api/itineraries/{sessionID}/entries.
func (s *Server) AddCustomEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "sessionID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	var req customEntryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	session, err := s.itineraries.AddCustom(id, domain.ItineraryEntry{
		RecommendationItem: domain.RecommendationItem{
			Title:       req.Title,
			Description: req.Description,
			Location:    domain.Location{Address: req.Address},
			Date:        req.Date,
			Time:        req.Time,
		},
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(session))
}

// reorderRequest is the body of POST .../reorder. Indexes are pointers so a
// missing field never silently means position zero.
type reorderRequest struct {
	Date string `json:"date" validate:"required"`
	From *int   `json:"from" validate:"required"`
	To   *int   `json:"to" validate:"required"`
}

// ReorderEntries handles POST /api/itineraries/{sessionID}/reorder.
func (s *Server) ReorderEntries(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "sessionID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	var req reorderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	session, err := s.itineraries.Reorder(id, req.Date, *req.From, *req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(session))
}

// deletionRequest is the body of POST .../deletions.
type deletionRequest struct {
	Date  string `json:"date" validate:"required"`
	Index *int   `json:"index" validate:"required"`
}

// DeleteEntry handles POST /api/itineraries/{sessionID}/deletions.
// Deletion is a POST with a positional body, not an HTTP DELETE, because the
// target is a (date, index) coordinate rather than a stable resource id.
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "sessionID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	var req deletionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	session, err := s.itineraries.DeleteEntry(id, req.Date, *req.Index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(session))
}

// saveRequest is the body of POST .../save.
type saveRequest struct {
	Name string `json:"name" validate:"required"`
}

// SaveItinerary handles POST /api/itineraries/{sessionID}/save.
func (s *Server) SaveItinerary(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "sessionID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	var req saveRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	trip, err := s.itineraries.Save(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

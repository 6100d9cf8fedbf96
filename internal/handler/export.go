package handler

import "net/http"

// ExportCalendar handles GET /api/trips/{tripID}/calendar.ics.
// The response is served inline as text/calendar so calendar apps pick it up
// directly from the link.
func (s *Server) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "tripID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	ics, err := s.calendar.ICS(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trip.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ics))
}

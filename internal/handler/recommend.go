package handler

import (
	"net/http"
	"time"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// recommendationRequest is the body of POST /api/recommendations.
// Both fields are optional; an empty request still yields a shortlist drawn
// from the candidate pool alone.
type recommendationRequest struct {
	Interests string            `json:"interests"`
	Answers   map[string]string `json:"answers"`
}

type recommendationResponse struct {
	Recommendations []domain.RecommendationItem `json:"recommendations"`
}

// CreateRecommendations handles POST /api/recommendations.
// It runs the full generation pipeline and returns the validated shortlist.
func (s *Server) CreateRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	items, err := s.recommendations.Recommend(r.Context(), domain.RecommendationRequest{
		FreeTextInterests: req.Interests,
		StructuredAnswers: req.Answers,
		ReferenceDate:     time.Now().UTC(),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if items == nil {
		items = []domain.RecommendationItem{}
	}
	writeJSON(w, http.StatusOK, recommendationResponse{Recommendations: items})
}

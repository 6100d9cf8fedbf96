package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// recommendationEnvelope covers models that wrap the array in an object
// despite the array-only instruction.
type recommendationEnvelope struct {
	Recommendations []domain.RecommendationItem `json:"recommendations"`
}

// ParseRecommendations validates the raw model response against the
// recommendation list contract. It strips surrounding code fences (models
// sometimes wrap JSON in them despite instructions), parses the JSON, and
// checks every item. Any parse or shape failure returns
// domain.ErrInvalidOutput; there is no partial acceptance.
//
// Items missing coordinates are retained but flagged, never coerced to a
// default coordinate: a fabricated (0,0) would corrupt downstream map
// rendering, so the validator is deliberately stricter here than the
// prompt's "mandatory" wording, which a model may violate.
func ParseRecommendations(raw string) ([]domain.RecommendationItem, error) {
	cleaned := stripFences(raw)

	items, err := decodeList(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidOutput, err)
	}

	for i := range items {
		if strings.TrimSpace(items[i].Title) == "" {
			return nil, fmt.Errorf("%w: item %d has no title", domain.ErrInvalidOutput, i)
		}
		if !domain.IsCalendarDate(items[i].Date) {
			return nil, fmt.Errorf("%w: item %d date %q is not a YYYY-MM-DD calendar date",
				domain.ErrInvalidOutput, i, items[i].Date)
		}
		if items[i].Location.Coordinates == nil {
			items[i].MissingCoordinates = true
		}
	}
	return items, nil
}

// decodeList accepts a bare JSON array or a {"recommendations": [...]}
// envelope.
func decodeList(cleaned string) ([]domain.RecommendationItem, error) {
	trimmed := strings.TrimSpace(cleaned)
	if strings.HasPrefix(trimmed, "[") {
		var items []domain.RecommendationItem
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var env recommendationEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return nil, err
	}
	if env.Recommendations == nil {
		return nil, fmt.Errorf("top-level value is neither an array nor a recommendations envelope")
	}
	return env.Recommendations, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language marker.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

package domain

import "time"

// RecommendationRequest carries the user's wishes into the generation step.
type RecommendationRequest struct {
	// FreeTextInterests is the optional free-form interests field.
	FreeTextInterests string
	// StructuredAnswers maps question id to the user's free-text answer.
	// Insertion order is irrelevant; the prompt builder sorts keys so the
	// prompt is deterministic for a given request.
	StructuredAnswers map[string]string
	// ReferenceDate is the instant the request was issued. All relative date
	// expressions ("next Saturday") resolve against it.
	ReferenceDate time.Time
}

// Location is an address plus optional coordinates.
type Location struct {
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// RecommendationItem is one entry of the generated shortlist.
// Date is always a concrete "YYYY-MM-DD" calendar date past the validator;
// natural-language dates are rejected at that boundary.
type RecommendationItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    Location `json:"location"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Price       string   `json:"price"`
	Image       string   `json:"image,omitempty"`
	MatchReason string   `json:"matchReason,omitempty"`

	// MissingCoordinates is set by the validator when the model violated the
	// mandatory-coordinates instruction. The item is retained but flagged so
	// map rendering can skip it instead of plotting a bogus default point.
	MissingCoordinates bool `json:"missingCoordinates,omitempty"`
}

// Package domain contains the core data types for the day planner backend.
// Apart from small utility libraries it has no heavyweight dependencies and
// is imported by every other internal package (source, genai, repo, service,
// handler).
package domain

import (
	"fmt"
	"time"
)

// SourceKind discriminates which catalog an ActivityCandidate came from.
// It is a closed set: normalizers must tag every record with one of these.
type SourceKind string

const (
	// SourceCuratedDB is the structured activity store maintained by editors.
	SourceCuratedDB SourceKind = "curated-db"
	// SourceLiveTicketing is the external live events/ticketing feed.
	SourceLiveTicketing SourceKind = "live-ticketing"
	// SourceStaticCatalog is the catalog shipped with the binary.
	SourceStaticCatalog SourceKind = "static-catalog"
)

// Tag is a closed activity category. Unknown tag strings are a validation
// error at the normalization boundary, never a silent fallback.
type Tag string

const (
	TagOutdoors   Tag = "outdoors"
	TagMuseum     Tag = "museum"
	TagPlayground Tag = "playground"
	TagFood       Tag = "food"
	TagShow       Tag = "show"
	TagSport      Tag = "sport"
	TagAnimals    Tag = "animals"
	TagWater      Tag = "water"
)

// ParseTag maps a raw category string onto the closed Tag set.
// Returns ErrValidation for anything outside the set so malformed source
// records are dropped at the boundary instead of leaking unknown categories
// downstream.
func ParseTag(s string) (Tag, error) {
	switch Tag(s) {
	case TagOutdoors, TagMuseum, TagPlayground, TagFood, TagShow, TagSport, TagAnimals, TagWater:
		return Tag(s), nil
	}
	return "", fmt.Errorf("%w: unknown tag %q", ErrValidation, s)
}

// Label returns the display label for a tag. The switch is exhaustive over
// the closed set; the default branch is unreachable for tags produced by
// ParseTag.
func (t Tag) Label() string {
	switch t {
	case TagOutdoors:
		return "Outdoors"
	case TagMuseum:
		return "Museum"
	case TagPlayground:
		return "Playground"
	case TagFood:
		return "Food & Drink"
	case TagShow:
		return "Show"
	case TagSport:
		return "Sport"
	case TagAnimals:
		return "Animals"
	case TagWater:
		return "Water"
	}
	return string(t)
}

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PriceRange is the min/max price of an activity in the local currency.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ActivityCandidate is the normalized record every source fetcher produces.
// ID is namespaced per source ("<source>-<raw id>") so the merged candidate
// pool never collides across sources.
type ActivityCandidate struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	PriceRange  *PriceRange  `json:"priceRange,omitempty"`
	StartTime   *time.Time   `json:"startTime,omitempty"`
	EndTime     *time.Time   `json:"endTime,omitempty"`
	Tags        []Tag        `json:"tags,omitempty"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	SourceKind  SourceKind   `json:"sourceKind"`
}

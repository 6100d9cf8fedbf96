package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// EntryOrigin records whether an itinerary entry came out of the generation
// pipeline or was typed in by the user.
type EntryOrigin string

const (
	OriginGenerated EntryOrigin = "generated"
	OriginCustom    EntryOrigin = "custom"
)

// ItineraryEntry is a recommendation the user kept, or a custom entry they
// authored. Entries are owned by the session until the itinerary is saved.
type ItineraryEntry struct {
	RecommendationItem
	Origin EntryOrigin `json:"origin"`
}

// SessionState is the lifecycle state of an itinerary session.
type SessionState string

const (
	// StateDiscovering: candidates are presented one at a time for an
	// accept/reject decision.
	StateDiscovering SessionState = "discovering"
	// StateEditing: curation is complete; the liked sequence can be
	// reordered, deleted from, and appended to. The instant the last
	// candidate is decided ("curated") and the editing phase are one state,
	// since no operation distinguishes them.
	StateEditing SessionState = "editing"
	// StatePersisted: the itinerary has been saved as a Trip.
	StatePersisted SessionState = "persisted"
	// StateNoRecommendations: terminal state entered when generation
	// produced zero candidates. Distinct from loading and error states so
	// the UI can prompt the user to restart discovery.
	StateNoRecommendations SessionState = "no-recommendations"
)

// Session is the mutable curation/editing state for one user sitting.
// It lives in the session store, never in the database; only Save snapshots
// it into a Trip.
type Session struct {
	ID         uuid.UUID            `json:"id"`
	State      SessionState         `json:"state"`
	Candidates []RecommendationItem `json:"candidates"`
	// Cursor indexes the next candidate awaiting a decision.
	Cursor  int              `json:"cursor"`
	Entries []ItineraryEntry `json:"entries"`
	// TripID is set once the session reaches StatePersisted.
	TripID    *uuid.UUID `json:"tripId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TotalCost returns the derived cost of the current entries.
// It is recomputed on every read, never stored alongside the entries.
func (s *Session) TotalCost() float64 {
	return TotalCost(s.Entries)
}

// DayGroup is the entries of one calendar date, in display order.
type DayGroup struct {
	Date    string           `json:"date"`
	Entries []ItineraryEntry `json:"entries"`
}

// GroupByDate partitions entries by calendar date into groups ordered by
// date ascending. Within a group, entries keep their sequence order.
func GroupByDate(entries []ItineraryEntry) []DayGroup {
	byDate := map[string][]ItineraryEntry{}
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	dates := lo.Keys(byDate)
	sort.Strings(dates)
	return lo.Map(dates, func(d string, _ int) DayGroup {
		return DayGroup{Date: d, Entries: byDate[d]}
	})
}

// Reorder moves the entry at position `from` to position `to` within the
// group of the given date, then rebuilds the global sequence.
//
// The correctness property: entries on other dates are untouched and keep
// their relative order; entries on the affected date follow the new order;
// the result is re-laid-out date-partition-first (dates ascending).
// Returns ErrValidation when the date has no entries or an index is out of
// range.
func Reorder(entries []ItineraryEntry, date string, from, to int) ([]ItineraryEntry, error) {
	groups := GroupByDate(entries)
	_, idx, found := lo.FindIndexOf(groups, func(g DayGroup) bool { return g.Date == date })
	if !found {
		return nil, fmt.Errorf("%w: no entries on %s", ErrValidation, date)
	}

	day := groups[idx].Entries
	if from < 0 || from >= len(day) || to < 0 || to >= len(day) {
		return nil, fmt.Errorf("%w: reorder index out of range", ErrValidation)
	}

	// Stable move: remove at `from`, insert at `to`.
	moved := day[from]
	day = append(day[:from:from], day[from+1:]...)
	day = append(day[:to:to], append([]ItineraryEntry{moved}, day[to:]...)...)
	groups[idx].Entries = day

	return lo.FlatMap(groups, func(g DayGroup, _ int) []ItineraryEntry { return g.Entries }), nil
}

// DeleteAt removes exactly one entry identified by its (date, index)
// coordinate. Identification is positional, not by value equality, because
// duplicate titles/times within a day are legal.
func DeleteAt(entries []ItineraryEntry, date string, index int) ([]ItineraryEntry, error) {
	groups := GroupByDate(entries)
	_, idx, found := lo.FindIndexOf(groups, func(g DayGroup) bool { return g.Date == date })
	if !found {
		return nil, fmt.Errorf("%w: no entries on %s", ErrValidation, date)
	}

	day := groups[idx].Entries
	if index < 0 || index >= len(day) {
		return nil, fmt.Errorf("%w: delete index out of range", ErrValidation)
	}
	groups[idx].Entries = append(day[:index:index], day[index+1:]...)

	return lo.FlatMap(groups, func(g DayGroup, _ int) []ItineraryEntry { return g.Entries }), nil
}

// priceRE matches the first numeric component of a price display string,
// e.g. "$12.50 per child" -> "12.50".
var priceRE = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParsePrice extracts the numeric component of a price display string.
// Strings without a parseable number ("Free", "varies", "") contribute zero.
func ParsePrice(display string) float64 {
	m := priceRE.FindString(display)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// TotalCost sums the parsed numeric price of every entry.
func TotalCost(entries []ItineraryEntry) float64 {
	return lo.SumBy(entries, func(e ItineraryEntry) float64 { return ParsePrice(e.Price) })
}

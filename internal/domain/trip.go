package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the persisted itinerary aggregate. It is created on an explicit
// save, mutated only by its owner, and never mutated through the public
// shared view.
type Trip struct {
	ID      uuid.UUID        `json:"id"`
	Name    string           `json:"name"`
	Entries []ItineraryEntry `json:"entries"`
	// TotalCost and TotalEntries are derived from Entries and snapshotted at
	// persist time.
	TotalCost    float64 `json:"totalCost"`
	TotalEntries int     `json:"totalEntries"`
	// ShareToken is nil until the first share request mints one. The public
	// projection is keyed by this token, never by the trip id, to prevent
	// enumeration.
	ShareToken *uuid.UUID `json:"shareToken,omitempty"`
	// Recipients are the email addresses invitations were sent to.
	Recipients []string  `json:"recipients,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SharedTrip is the public read-only projection of a shared trip.
// It exposes no owner identity and no internal trip id beyond the aggregate's
// own id field set, per the share contract.
type SharedTrip struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Entries      []ItineraryEntry `json:"entries"`
	TotalCost    float64          `json:"totalCost"`
	TotalEntries int              `json:"totalEntries"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// Confirmation records one recipient's attendance answer for a trip.
type Confirmation struct {
	TripID    uuid.UUID `json:"tripId"`
	Email     string    `json:"email"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"createdAt"`
}

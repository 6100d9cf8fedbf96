package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/pvandewal/dayout/backend/internal/domain"
	"github.com/pvandewal/dayout/backend/internal/repo"
)

// defaultEventDuration applies when an entry's time display carries no end
// time, which is the common case for free-form displays like "from 10:00".
const defaultEventDuration = 2 * time.Hour

// CalendarService renders a persisted trip as an iCalendar document, one
// VEVENT per itinerary entry.
type CalendarService struct {
	trips     repo.TripRepo
	organizer string
}

// NewCalendarService constructs a CalendarService. organizer is the email
// address stamped as ORGANIZER on every event.
func NewCalendarService(trips repo.TripRepo, organizer string) *CalendarService {
	return &CalendarService{trips: trips, organizer: organizer}
}

// ICS renders the trip's calendar.
// Returns domain.ErrNotFound for an unknown trip.
func (s *CalendarService) ICS(ctx context.Context, tripID uuid.UUID) (string, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return "", fmt.Errorf("service.CalendarService.ICS: %w", err)
	}
	return s.Render(trip), nil
}

// Render builds the iCalendar document for a trip. Entries with a stored
// calendar date keep it; entries without one land on tomorrow. The start
// clock is the first HH:MM in the entry's time display, falling back to
// 09:00.
func (s *CalendarService) Render(trip domain.Trip) string {
	now := time.Now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	cal.SetProductId("-//DayOut//Planner//EN")

	for i, entry := range trip.Entries {
		start := eventStart(entry, now)

		ev := cal.AddEvent(fmt.Sprintf("%s-%d@dayout", trip.ID, i))
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(defaultEventDuration))
		ev.SetSummary(entry.Title)
		if entry.Description != "" {
			ev.SetDescription(entry.Description)
		}
		if entry.Location.Address != "" {
			ev.SetLocation(entry.Location.Address)
		}
		if s.organizer != "" {
			ev.SetOrganizer("mailto:"+s.organizer, ics.WithCN("Day Out Planner"))
		}
		for _, recipient := range trip.Recipients {
			ev.AddAttendee(recipient,
				ics.CalendarUserTypeIndividual,
				ics.ParticipationStatusNeedsAction,
				ics.ParticipationRoleReqParticipant,
				ics.WithRSVP(true))
		}
		ev.SetStatus(ics.ObjectStatusConfirmed)
		ev.SetSequence(0)
	}

	return cal.Serialize()
}

// eventStart resolves an entry's wall-clock start. The stored date wins when
// it is a concrete calendar date; anything else falls back to tomorrow so the
// export never emits an unparseable DTSTART.
func eventStart(entry domain.ItineraryEntry, now time.Time) time.Time {
	day := now.AddDate(0, 0, 1)
	if domain.IsCalendarDate(entry.Date) {
		day, _ = time.Parse(domain.DateLayout, entry.Date)
	}

	hour, minute, ok := domain.FirstClock(entry.Time)
	if !ok {
		hour, minute = 9, 0
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

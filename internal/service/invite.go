package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pvandewal/dayout/backend/internal/domain"
	"github.com/pvandewal/dayout/backend/internal/repo"
)

// Invitation is one outbound invitation email.
type Invitation struct {
	To       string
	Subject  string
	HTMLBody string
	// Calendar is the iCalendar attachment, named trip.ics on the wire.
	Calendar string
}

// Mailer sends a single invitation. The SMTP implementation lives in the
// mail package; tests substitute a recording double.
type Mailer interface {
	Send(inv Invitation) error
}

// InviteOutcome aggregates a fan-out: how many invitations were delivered
// and how many failed. A partial failure is a normal outcome, not an error.
type InviteOutcome struct {
	SuccessCount int `json:"successCount"`
	FailCount    int `json:"failCount"`
}

// InviteService sends trip invitations: it ensures the trip is shared,
// renders the calendar attachment, and fans out one email per recipient.
type InviteService struct {
	trips    repo.TripRepo
	calendar *CalendarService
	mailer   Mailer
	shareURL func(token uuid.UUID) string
	log      *slog.Logger
}

// NewInviteService constructs an InviteService. shareURL builds the public
// link embedded in the email body, normally TripService.ShareURL.
func NewInviteService(trips repo.TripRepo, calendar *CalendarService, mailer Mailer, shareURL func(uuid.UUID) string, log *slog.Logger) *InviteService {
	return &InviteService{
		trips:    trips,
		calendar: calendar,
		mailer:   mailer,
		shareURL: shareURL,
		log:      log,
	}
}

// Invite sends one invitation per address, sequentially. Sending continues
// past individual failures; the outcome reports both counts. Only recipients
// whose email was actually delivered are recorded on the trip.
// Returns domain.ErrValidation for an empty recipient list and
// domain.ErrNotFound for an unknown trip.
func (s *InviteService) Invite(ctx context.Context, tripID uuid.UUID, emails []string) (InviteOutcome, error) {
	if len(emails) == 0 {
		return InviteOutcome{}, fmt.Errorf("%w: at least one recipient is required", domain.ErrValidation)
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return InviteOutcome{}, fmt.Errorf("service.InviteService.Invite: %w", err)
	}

	// Sharing must precede inviting: the email body links to the public view.
	token, err := s.trips.EnsureShareToken(ctx, tripID, uuid.New())
	if err != nil {
		return InviteOutcome{}, fmt.Errorf("service.InviteService.Invite: %w", err)
	}

	calendar := s.calendar.Render(trip)
	link := s.shareURL(token)

	var outcome InviteOutcome
	var delivered []string
	for _, email := range emails {
		inv := Invitation{
			To:       email,
			Subject:  fmt.Sprintf("You're invited: %s", trip.Name),
			HTMLBody: inviteBody(trip, link),
			Calendar: calendar,
		}
		if err := s.mailer.Send(inv); err != nil {
			s.log.Warn("invitation delivery failed", "trip", tripID, "to", email, "error", err)
			outcome.FailCount++
			continue
		}
		outcome.SuccessCount++
		delivered = append(delivered, email)
	}

	if len(delivered) > 0 {
		if err := s.trips.AddRecipients(ctx, tripID, delivered); err != nil {
			return InviteOutcome{}, fmt.Errorf("service.InviteService.Invite: %w", err)
		}
	}
	return outcome, nil
}

// inviteBody renders the invitation email. Plain string assembly; the body
// is short enough that a template engine would be overhead.
func inviteBody(trip domain.Trip, shareLink string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>You have been invited to <strong>%s</strong>.</p>", trip.Name)
	fmt.Fprintf(&b, "<p>%d activities, total cost $%.2f.</p>", trip.TotalEntries, trip.TotalCost)
	fmt.Fprintf(&b, `<p><a href="%s">View the full itinerary</a> and confirm whether you can make it.</p>`, shareLink)
	b.WriteString("<p>The attached calendar file adds every activity to your calendar.</p>")
	return b.String()
}

// Package mail sends invitation email over SMTP. It is the only package that
// talks to the mail server; the service layer depends on its interface, not
// this implementation.
package mail

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/domodwyer/mailyak/v3"

	"github.com/pvandewal/dayout/backend/internal/service"
)

// SMTPMailer delivers invitations through a plain SMTP relay.
// A fresh message is built per send; mailyak instances are not reusable
// across recipients without leaking prior state.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer constructs an SMTPMailer. addr is "host:port". Empty user
// skips authentication, which local relays commonly allow.
func NewSMTPMailer(addr, user, pass, from string) *SMTPMailer {
	var auth smtp.Auth
	if user != "" {
		host := addr
		if h, _, err := net.SplitHostPort(addr); err == nil {
			host = h
		}
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &SMTPMailer{addr: addr, auth: auth, from: from}
}

// Send delivers one invitation with the calendar attached as trip.ics.
func (m *SMTPMailer) Send(inv service.Invitation) error {
	msg := mailyak.New(m.addr, m.auth)
	msg.From(m.from)
	msg.FromName("Day Out Planner")
	msg.To(inv.To)
	msg.Subject(inv.Subject)
	msg.HTML().Set(inv.HTMLBody)
	if inv.Calendar != "" {
		msg.Attach("trip.ics", strings.NewReader(inv.Calendar))
	}
	if err := msg.Send(); err != nil {
		return fmt.Errorf("mail.SMTPMailer.Send: %w", err)
	}
	return nil
}

// compile-time check: SMTPMailer must satisfy service.Mailer.
var _ service.Mailer = (*SMTPMailer)(nil)

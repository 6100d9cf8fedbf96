package domain

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the wire format for every calendar date crossing a pipeline
// boundary. No component accepts or emits natural-language dates past the
// generation contract.
const DateLayout = "2006-01-02"

var calendarDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsCalendarDate reports whether s is a concrete YYYY-MM-DD date.
func IsCalendarDate(s string) bool {
	if !calendarDateRE.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// relativeDateRE matches the relative date expressions the date contract
// defines rules for. Used both to resolve expressions and to decide whether
// the prompt needs the explicit date-computation instruction.
var relativeDateRE = regexp.MustCompile(`(?i)\b(today|tomorrow|(this|next)\s+(sunday|monday|tuesday|wednesday|thursday|friday|saturday))\b`)

// ContainsRelativeDate reports whether the text contains a relative date
// expression ("next Saturday", "tomorrow", ...).
func ContainsRelativeDate(text string) bool {
	return relativeDateRE.MatchString(text)
}

// ResolveRelative resolves a relative date expression against the reference
// date, returning the concrete YYYY-MM-DD date and true on success.
//
// Rules (the date-calculation contract):
//   - "today" = the reference date.
//   - "tomorrow" = reference date + 1 day.
//   - "this <weekday>" = the nearest upcoming occurrence; today counts when
//     it matches.
//   - "next <weekday>" = the occurrence in the second upcoming week, i.e.
//     the nearest occurrence is skipped. "next Saturday" on a Saturday is a
//     full week out, never the same day.
func ResolveRelative(expr string, ref time.Time) (string, bool) {
	expr = strings.ToLower(strings.TrimSpace(expr))

	switch expr {
	case "today":
		return ref.Format(DateLayout), true
	case "tomorrow":
		return ref.AddDate(0, 0, 1).Format(DateLayout), true
	}

	fields := strings.Fields(expr)
	if len(fields) != 2 {
		return "", false
	}
	wd, ok := weekdays[fields[1]]
	if !ok {
		return "", false
	}

	// Days until the nearest upcoming occurrence, today included.
	ahead := (int(wd) - int(ref.Weekday()) + 7) % 7

	switch fields[0] {
	case "this":
		return ref.AddDate(0, 0, ahead).Format(DateLayout), true
	case "next":
		return ref.AddDate(0, 0, ahead+7).Format(DateLayout), true
	}
	return "", false
}

var clockRE = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)

// FirstClock extracts the first HH:MM occurrence from a display string
// ("10:00 - 12:00" -> 10h00). Returns false when the string carries no
// parseable clock time.
func FirstClock(display string) (hour, minute int, ok bool) {
	m := clockRE.FindStringSubmatch(display)
	if m == nil {
		return 0, 0, false
	}
	hour = int(m[1][0]-'0')
	if len(m[1]) == 2 {
		hour = hour*10 + int(m[1][1]-'0')
	}
	minute = int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

package ics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kcarnold/calgen/internal/model"
)

// Profile carries the institutional constants stamped into every document.
// The timezone is declared once in the preamble with fixed US-Eastern DST
// rules (second Sunday of March / first Sunday of November); consumers
// depend on that block verbatim.
type Profile struct {
	ProdID     string
	TimezoneID string
}

// DefaultProfile matches the documents the original deployment produced.
func DefaultProfile() Profile {
	return Profile{
		ProdID:     "-//Ken Arnold//Workday to ICS//EN",
		TimezoneID: "America/Detroit",
	}
}

// calendarHeader is frozen: consumers (Outlook in particular) have been
// verified against this exact preamble. Only PRODID and TZID vary.
const calendarHeader = `BEGIN:VCALENDAR
PRODID:%s
VERSION:2.0
CALSCALE:GREGORIAN
METHOD:PUBLISH
BEGIN:VTIMEZONE
TZID:%s
X-LIC-LOCATION:%s
BEGIN:DAYLIGHT
TZOFFSETFROM:-0500
TZOFFSETTO:-0400
TZNAME:EDT
DTSTART:19700308T020000
RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=2SU
END:DAYLIGHT
BEGIN:STANDARD
TZOFFSETFROM:-0400
TZOFFSETTO:-0500
TZNAME:EST
DTSTART:19701101T020000
RRULE:FREQ=YEARLY;BYMONTH=11;BYDAY=1SU
END:STANDARD
END:VTIMEZONE
`

const calendarFooter = "END:VCALENDAR\n"

// Writer serializes event descriptors into an iCalendar document.
// Now and NewUID are injectable so tests can pin DTSTAMP and UID; zero
// values mean the real clock and random UUIDs.
type Writer struct {
	Profile Profile
	Now     func() time.Time
	NewUID  func() string
}

// NewWriter returns a Writer for the given profile with default UID and
// timestamp sources.
func NewWriter(p Profile) *Writer {
	return &Writer{
		Profile: p,
		Now:     func() time.Time { return time.Now().UTC() },
		NewUID:  uuid.NewString,
	}
}

// Serialize renders the full document: preamble, one VEVENT per all-day
// marker, one VEVENT per event descriptor, CRLF line endings with blank
// lines stripped.
func (w *Writer) Serialize(allDay []AllDayEvent, events []Event) (string, error) {
	blocks := make([]string, 0, len(allDay)+len(events))
	for _, ev := range allDay {
		block, err := w.allDayBlock(ev)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}
	for _, ev := range events {
		block, err := w.eventBlock(ev)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}

	header := fmt.Sprintf(calendarHeader, w.Profile.ProdID, w.Profile.TimezoneID, w.Profile.TimezoneID)
	doc := header + "\n" + strings.Join(blocks, "\n") + "\n" + calendarFooter

	// Strip blank lines, then join with CRLF for RFC 5545 consumers.
	lines := strings.Split(doc, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\r\n"), nil
}

func (w *Writer) allDayBlock(ev AllDayEvent) (string, error) {
	if strings.ContainsAny(ev.Summary, "\r\n") {
		return "", fmt.Errorf("ics: all-day event summary contains a line break: %q", ev.Summary)
	}
	var b strings.Builder
	b.WriteString("BEGIN:VEVENT\n")
	fmt.Fprintf(&b, "DTSTART;VALUE=DATE:%s\n", icsDate(ev.Date))
	fmt.Fprintf(&b, "SUMMARY:%s\n", ev.Summary)
	fmt.Fprintf(&b, "UID:%s\n", w.NewUID())
	fmt.Fprintf(&b, "DTSTAMP:%s\n", w.dtstamp())
	b.WriteString("END:VEVENT\n")
	return b.String(), nil
}

func (w *Writer) eventBlock(ev Event) (string, error) {
	tzid := w.Profile.TimezoneID

	var rrule, exdates string
	if pattern, ok := ev.Pattern.Get(); ok {
		last, ok := ev.LastDate.Get()
		if !ok {
			return "", fmt.Errorf("ics: recurring event %q has no last date", ev.Summary)
		}
		codes := make([]string, len(pattern))
		for i, d := range pattern {
			codes[i] = wireCode[d]
		}
		rrule = fmt.Sprintf("RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=%s;UNTIL=%sZ",
			strings.Join(codes, ","),
			icsDateTime(last, model.ClockTime{Hour: 23, Minute: 59}))

		exLines := make([]string, len(ev.Exclusions))
		for i, ex := range ev.Exclusions {
			exLines[i] = fmt.Sprintf("EXDATE;TZID=%s:%s", tzid, icsDateTime(ex, ev.Start))
		}
		exdates = strings.Join(exLines, "\n")
	} else if len(ev.Exclusions) > 0 {
		// A one-off occurrence has no rule to exclude from.
		return "", errors.New("ics: single-occurrence event carries exclusion dates")
	}

	var b strings.Builder
	b.WriteString("BEGIN:VEVENT\n")
	fmt.Fprintf(&b, "DTSTAMP:%s\n", w.dtstamp())
	fmt.Fprintf(&b, "SUMMARY:%s\n", ev.Summary)
	fmt.Fprintf(&b, "LOCATION:%s\n", ev.Location)
	fmt.Fprintf(&b, "DTSTART;TZID=%s:%s\n", tzid, icsDateTime(ev.FirstDate, ev.Start))
	fmt.Fprintf(&b, "DTEND;TZID=%s:%s\n", tzid, icsDateTime(ev.FirstDate, ev.End))
	fmt.Fprintf(&b, "UID:%s\n", w.NewUID())
	if rrule != "" {
		b.WriteString(rrule + "\n")
	}
	if exdates != "" {
		b.WriteString(exdates + "\n")
	}
	b.WriteString("END:VEVENT\n")
	return b.String(), nil
}

func (w *Writer) dtstamp() string {
	return w.Now().Format("20060102T150405Z")
}

func icsDate(t time.Time) string {
	return t.Format("20060102")
}

func icsDateTime(date time.Time, c model.ClockTime) string {
	return fmt.Sprintf("%sT%02d%02d00", icsDate(date), c.Hour, c.Minute)
}

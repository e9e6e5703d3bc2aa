// Package ics builds event descriptors from compacted meeting data and
// serializes them into the iCalendar document Workday users import.
package ics

import (
	"time"

	"github.com/samber/mo"

	"github.com/kcarnold/calgen/internal/model"
)

// Event describes either a weekly recurring class meeting or, when Pattern
// is absent, a single one-off occurrence (a makeup or shifted meeting).
//
// Invariant: an event without a pattern has no LastDate and no Exclusions.
type Event struct {
	FirstDate time.Time
	LastDate  mo.Option[time.Time]

	Summary  string
	Location string

	Start model.ClockTime
	End   model.ClockTime

	Pattern    mo.Option[model.Pattern]
	Exclusions []time.Time
}

// Recurring reports whether the event carries a weekly rule.
func (e Event) Recurring() bool {
	return e.Pattern.IsPresent()
}

// AllDayEvent is a date-only marker, used to make holidays and other
// special dates visible on the imported calendar.
type AllDayEvent struct {
	Date    time.Time
	Summary string
}

// wireCode maps each pattern weekday to its two-letter RRULE BYDAY code.
var wireCode = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

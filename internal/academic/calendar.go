// Package academic implements the academic-calendar side of the conversion:
// the special-date table, the per-day meeting resolver and the recurrence
// compactor.
package academic

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/kcarnold/calgen/internal/model"
)

// EndOfSemesterToken is the sentinel used in the special-dates CSV to mark
// the last day of classes.
const EndOfSemesterToken = "END_OF_SEMESTER"

type effectKind uint8

const (
	effectWeekday effectKind = iota
	effectNoMeeting
	effectSemesterEnd
)

// Effect is what a special date does to the day it falls on: run another
// weekday's schedule, hold no classes, or end the semester.
type Effect struct {
	kind    effectKind
	weekday time.Weekday
}

var (
	// NoMeeting means classes do not meet on the date (holiday, break).
	NoMeeting = Effect{kind: effectNoMeeting}
	// SemesterEnd means no class meets on this or any later date.
	SemesterEnd = Effect{kind: effectSemesterEnd}
)

// WeekdayEffect makes the date follow the given weekday's schedule instead
// of its own ("Thursday with Friday schedule").
func WeekdayEffect(d time.Weekday) Effect {
	return Effect{kind: effectWeekday, weekday: d}
}

// Weekday returns the effective weekday and true, or false for the
// NoMeeting and SemesterEnd sentinels.
func (e Effect) Weekday() (time.Weekday, bool) {
	return e.weekday, e.kind == effectWeekday
}

// IsSemesterEnd reports whether the effect ends the semester.
func (e Effect) IsSemesterEnd() bool {
	return e.kind == effectSemesterEnd
}

func (e Effect) String() string {
	switch e.kind {
	case effectNoMeeting:
		return "no meeting"
	case effectSemesterEnd:
		return "semester end"
	default:
		return e.weekday.String() + " schedule"
	}
}

// ParseEffect parses the "pattern" column of the special-dates table:
// a single weekday letter, the END_OF_SEMESTER sentinel, or the empty
// string meaning no class.
func ParseEffect(s string) (Effect, error) {
	switch {
	case s == "":
		return NoMeeting, nil
	case s == EndOfSemesterToken:
		return SemesterEnd, nil
	case len(s) == 1:
		p, err := model.ParsePattern(s)
		if err != nil {
			return Effect{}, err
		}
		return WeekdayEffect(p[0]), nil
	default:
		return Effect{}, fmt.Errorf("academic: invalid special-date pattern %q", s)
	}
}

// SpecialDate is one entry of the academic calendar's exception table.
type SpecialDate struct {
	Date   time.Time
	Name   string
	Effect Effect
}

// Calendar is the immutable exception table, loaded once at startup.
// Lookup is by calendar date; when the source table carries the same date
// twice, the first entry wins and the date is recorded as a duplicate so
// the caller can warn about the source data.
type Calendar struct {
	entries    []SpecialDate
	byDate     map[string]Effect
	duplicates []time.Time
}

const dateKey = "2006-01-02"

// NewCalendar builds a Calendar from the given entries, preserving table
// order for duplicate resolution.
func NewCalendar(entries []SpecialDate) *Calendar {
	c := &Calendar{
		entries: entries,
		byDate:  make(map[string]Effect, len(entries)),
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		key := e.Date.Format(dateKey)
		if seen[key] {
			c.duplicates = append(c.duplicates, e.Date)
			continue
		}
		seen[key] = true
		c.byDate[key] = e.Effect
	}
	return c
}

// EffectFor returns the effect registered for the given date, if any.
func (c *Calendar) EffectFor(date time.Time) (Effect, bool) {
	if c == nil {
		return Effect{}, false
	}
	e, ok := c.byDate[date.Format(dateKey)]
	return e, ok
}

// Duplicates returns the dates that appeared more than once in the source
// table. A non-empty result is a data problem worth warning about, but the
// calendar stays usable.
func (c *Calendar) Duplicates() []time.Time {
	return c.duplicates
}

// Between returns the entries falling inside [from, to], in table order.
func (c *Calendar) Between(from, to time.Time) []SpecialDate {
	if c == nil {
		return nil
	}
	var out []SpecialDate
	for _, e := range c.entries {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// specialDateRow mirrors one row of the special-dates CSV.
type specialDateRow struct {
	Date    string `csv:"date"`
	Name    string `csv:"name"`
	Pattern string `csv:"pattern"`
}

// LoadSpecialDates reads the special-dates table from CSV with columns
// date (ISO 8601), name, pattern. See ParseEffect for the pattern column.
func LoadSpecialDates(r io.Reader) (*Calendar, error) {
	var rows []*specialDateRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("academic: reading special dates: %w", err)
	}

	entries := make([]SpecialDate, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse(dateKey, row.Date)
		if err != nil {
			return nil, fmt.Errorf("academic: special dates row %d: bad date %q: %w", i+1, row.Date, err)
		}
		effect, err := ParseEffect(row.Pattern)
		if err != nil {
			return nil, fmt.Errorf("academic: special dates row %d (%s): %w", i+1, row.Name, err)
		}
		entries = append(entries, SpecialDate{
			Date:   model.DateOf(date),
			Name:   row.Name,
			Effect: effect,
		})
	}
	return NewCalendar(entries), nil
}

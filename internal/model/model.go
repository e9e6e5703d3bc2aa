package model

import (
	"fmt"
	"strings"
	"time"
)

// PatternLetters is the weekday alphabet used by Workday meeting patterns.
// Thursday is "R" and Sunday is "U" so that every weekday is a single
// character.
const PatternLetters = "MTWRFSU"

var letterToWeekday = map[rune]time.Weekday{
	'M': time.Monday,
	'T': time.Tuesday,
	'W': time.Wednesday,
	'R': time.Thursday,
	'F': time.Friday,
	'S': time.Saturday,
	'U': time.Sunday,
}

var weekdayToLetter = map[time.Weekday]rune{
	time.Monday:    'M',
	time.Tuesday:   'T',
	time.Wednesday: 'W',
	time.Thursday:  'R',
	time.Friday:    'F',
	time.Saturday:  'S',
	time.Sunday:    'U',
}

// Pattern is the ordered set of weekdays on which a section nominally meets.
// Each weekday appears at most once.
type Pattern []time.Weekday

// ParsePattern parses a meeting pattern such as "MWF" into a Pattern.
// It rejects unknown letters and repeated weekdays.
func ParsePattern(s string) (Pattern, error) {
	p := make(Pattern, 0, len(s))
	for _, r := range s {
		d, ok := letterToWeekday[r]
		if !ok {
			return nil, fmt.Errorf("model: invalid weekday letter %q in pattern %q", r, s)
		}
		if p.Contains(d) {
			return nil, fmt.Errorf("model: repeated weekday %q in pattern %q", r, s)
		}
		p = append(p, d)
	}
	return p, nil
}

// Contains reports whether the pattern includes the given weekday.
func (p Pattern) Contains(d time.Weekday) bool {
	for _, w := range p {
		if w == d {
			return true
		}
	}
	return false
}

// String renders the pattern back into its letter form, e.g. "MWF".
func (p Pattern) String() string {
	var b strings.Builder
	for _, w := range p {
		b.WriteRune(weekdayToLetter[w])
	}
	return b.String()
}

// ClockTime is a wall-clock time of day with no date or zone attached.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// At places the clock time onto the given calendar date in loc.
func (c ClockTime) At(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// Section is one row of the parsed teaching schedule: a course section with
// its weekly meeting pattern, raw meeting-time string and date range.
//
// MeetingTime is kept as the raw "9:00 AM - 9:50 AM" string; parsing it is
// deferred so that a malformed time skips only this section.
type Section struct {
	Name        string
	Location    string
	Pattern     Pattern
	MeetingTime string
	StartDate   time.Time
	EndDate     time.Time
}

// Date builds a date-only time.Time (midnight UTC). All core date walking
// and comparison uses this normal form.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its date-only normal form.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

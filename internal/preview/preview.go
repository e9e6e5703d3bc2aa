// Package preview re-expands the generated event descriptors into concrete
// occurrences so the user can sanity-check the calendar before importing
// it. Expansion goes through a real RRULE engine; it therefore also serves
// as a round-trip check on the compact representation.
package preview

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/kcarnold/calgen/internal/ics"
	"github.com/kcarnold/calgen/internal/model"
)

// Occurrence is one concrete class meeting.
type Occurrence struct {
	Summary  string
	Location string
	Start    time.Time
	End      time.Time
}

var rruleWeekday = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Expand materializes every occurrence of the given events inside
// [from, to] in loc, sorted by start time.
func Expand(events []ics.Event, from, to time.Time, loc *time.Location) ([]Occurrence, error) {
	var out []Occurrence
	for _, ev := range events {
		occs, err := expandEvent(ev, from, to, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, occs...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func expandEvent(ev ics.Event, from, to time.Time, loc *time.Location) ([]Occurrence, error) {
	pattern, recurring := ev.Pattern.Get()
	if !recurring {
		start := ev.Start.At(ev.FirstDate, loc)
		if start.Before(from) || start.After(to) {
			return nil, nil
		}
		return []Occurrence{{
			Summary:  ev.Summary,
			Location: ev.Location,
			Start:    start,
			End:      ev.End.At(ev.FirstDate, loc),
		}}, nil
	}

	last, ok := ev.LastDate.Get()
	if !ok {
		return nil, fmt.Errorf("preview: recurring event %q has no last date", ev.Summary)
	}

	byweekday := make([]rrule.Weekday, len(pattern))
	for i, d := range pattern {
		byweekday[i] = rruleWeekday[d]
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Interval:  1,
		Byweekday: byweekday,
		Dtstart:   ev.Start.At(ev.FirstDate, loc),
		Until:     model.ClockTime{Hour: 23, Minute: 59}.At(last, loc),
	})
	if err != nil {
		return nil, fmt.Errorf("preview: building rule for %q: %w", ev.Summary, err)
	}

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.Exclusions {
		set.ExDate(ev.Start.At(ex, loc))
	}

	var out []Occurrence
	duration := time.Duration(ev.End.Hour-ev.Start.Hour)*time.Hour +
		time.Duration(ev.End.Minute-ev.Start.Minute)*time.Minute
	for _, start := range set.Between(from, to, true) {
		out = append(out, Occurrence{
			Summary:  ev.Summary,
			Location: ev.Location,
			Start:    start,
			End:      start.Add(duration),
		})
	}
	return out, nil
}

// WeeklyTable renders occurrences as a plain-text table, one line per
// meeting, grouped under a heading per week.
func WeeklyTable(occs []Occurrence) string {
	var b strings.Builder
	lastWeek := -1
	for _, o := range occs {
		year, week := o.Start.ISOWeek()
		if key := year*100 + week; key != lastWeek {
			fmt.Fprintf(&b, "Week of %s\n", weekStart(o.Start).Format("Jan 02"))
			lastWeek = key
		}
		line := fmt.Sprintf("  %s  %s - %s  %s",
			o.Start.Format("Mon Jan 02"),
			o.Start.Format("3:04 PM"),
			o.End.Format("3:04 PM"),
			o.Summary)
		if o.Location != "" {
			line += " (" + o.Location + ")"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func weekStart(t time.Time) time.Time {
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

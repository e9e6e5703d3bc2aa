package preview

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcarnold/calgen/internal/academic"
	"github.com/kcarnold/calgen/internal/ics"
	"github.com/kcarnold/calgen/internal/model"
)

func detroit(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Detroit")
	require.NoError(t, err)
	return loc
}

// TestExpandRoundTripsResolver checks that expanding the compact
// rule-plus-exclusions form through a real RRULE engine reproduces exactly
// the meeting dates the resolver produced.
func TestExpandRoundTripsResolver(t *testing.T) {
	loc := detroit(t)
	pattern, err := model.ParsePattern("MWF")
	require.NoError(t, err)

	cal := academic.NewCalendar([]academic.SpecialDate{
		{Date: model.Date(2024, time.September, 6), Name: "Break", Effect: academic.NoMeeting},
	})
	start := model.Date(2024, time.September, 2)
	end := model.Date(2024, time.September, 13)

	days := academic.Resolve(start, end, pattern, cal)
	compacted, err := academic.Compact(days)
	require.NoError(t, err)

	sec := model.Section{
		Name:        "CS 108 A",
		Location:    "SB 010",
		Pattern:     pattern,
		MeetingTime: "9:00 AM - 9:50 AM",
		StartDate:   start,
		EndDate:     end,
	}
	events, err := ics.BuildEvents(sec, compacted)
	require.NoError(t, err)

	occs, err := Expand(events,
		time.Date(2024, time.September, 2, 0, 0, 0, 0, loc),
		time.Date(2024, time.September, 13, 23, 59, 59, 0, loc),
		loc)
	require.NoError(t, err)

	var got []time.Time
	for _, o := range occs {
		got = append(got, model.DateOf(o.Start))
	}

	var want []time.Time
	for _, d := range days {
		if d.MeetsToday {
			want = append(want, d.Date)
		}
	}
	assert.Equal(t, want, got)

	for _, o := range occs {
		assert.Equal(t, 9, o.Start.Hour())
		assert.Equal(t, 50, o.End.Minute())
		assert.Equal(t, 50*time.Minute, o.End.Sub(o.Start))
	}
}

func TestExpandSingleOccurrence(t *testing.T) {
	loc := detroit(t)
	ev := ics.Event{
		FirstDate: model.Date(2024, time.September, 7),
		LastDate:  mo.None[time.Time](),
		Summary:   "CS 108 A",
		Start:     model.ClockTime{Hour: 9, Minute: 0},
		End:       model.ClockTime{Hour: 9, Minute: 50},
		Pattern:   mo.None[model.Pattern](),
	}

	occs, err := Expand([]ics.Event{ev},
		time.Date(2024, time.September, 1, 0, 0, 0, 0, loc),
		time.Date(2024, time.September, 30, 0, 0, 0, 0, loc),
		loc)
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, time.Date(2024, time.September, 7, 9, 0, 0, 0, loc), occs[0].Start)
}

func TestExpandSingleOccurrenceOutsideRange(t *testing.T) {
	loc := detroit(t)
	ev := ics.Event{
		FirstDate: model.Date(2024, time.September, 7),
		Summary:   "CS 108 A",
		Start:     model.ClockTime{Hour: 9, Minute: 0},
		End:       model.ClockTime{Hour: 9, Minute: 50},
	}

	occs, err := Expand([]ics.Event{ev},
		time.Date(2024, time.October, 1, 0, 0, 0, 0, loc),
		time.Date(2024, time.October, 31, 0, 0, 0, 0, loc),
		loc)
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestWeeklyTable(t *testing.T) {
	loc := detroit(t)
	occs := []Occurrence{
		{
			Summary:  "CS 108 A",
			Location: "SB 010",
			Start:    time.Date(2024, time.September, 2, 9, 0, 0, 0, loc),
			End:      time.Date(2024, time.September, 2, 9, 50, 0, 0, loc),
		},
		{
			Summary: "CS 214 B",
			Start:   time.Date(2024, time.September, 9, 13, 0, 0, 0, loc),
			End:     time.Date(2024, time.September, 9, 14, 15, 0, 0, loc),
		},
	}

	table := WeeklyTable(occs)
	assert.Contains(t, table, "Week of Sep 02")
	assert.Contains(t, table, "Week of Sep 09")
	assert.Contains(t, table, "CS 108 A (SB 010)")
	assert.Contains(t, table, "9:00 AM - 9:50 AM")
	assert.Contains(t, table, "CS 214 B\n")
}

package academic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcarnold/calgen/internal/model"
)

func mustPattern(t *testing.T, s string) model.Pattern {
	t.Helper()
	p, err := model.ParsePattern(s)
	require.NoError(t, err)
	return p
}

func meetingDates(days []DayClassification) []time.Time {
	var out []time.Time
	for _, d := range days {
		if d.MeetsToday {
			out = append(out, d.Date)
		}
	}
	return out
}

func TestResolveBaselineMatchesPattern(t *testing.T) {
	// With no special dates, MeetsToday must equal "weekday in pattern"
	// for every date in range.
	pattern := mustPattern(t, "MWF")
	start := model.Date(2024, time.September, 2) // a Monday
	end := model.Date(2024, time.September, 29)

	days := Resolve(start, end, pattern, NewCalendar(nil))
	require.Len(t, days, 28)

	for _, d := range days {
		assert.Equal(t, pattern.Contains(d.Date.Weekday()), d.MeetsToday, "date %s", d.Date)
		assert.False(t, d.IsException, "date %s", d.Date)
		assert.False(t, d.IsAbnormalMeeting, "date %s", d.Date)
	}
}

func TestResolveEmptyWhenStartAfterEnd(t *testing.T) {
	days := Resolve(model.Date(2024, time.September, 13), model.Date(2024, time.September, 2),
		mustPattern(t, "MWF"), NewCalendar(nil))
	assert.Empty(t, days)
}

func TestResolveNoMeetingException(t *testing.T) {
	// MWF with a break on Friday 2024-09-06: expected meeting dates drop
	// the 6th, which is classified as an exception.
	cal := NewCalendar([]SpecialDate{
		{Date: model.Date(2024, time.September, 6), Name: "Fall Break", Effect: NoMeeting},
	})
	days := Resolve(model.Date(2024, time.September, 2), model.Date(2024, time.September, 13),
		mustPattern(t, "MWF"), cal)

	want := []time.Time{
		model.Date(2024, time.September, 2),
		model.Date(2024, time.September, 4),
		model.Date(2024, time.September, 9),
		model.Date(2024, time.September, 11),
		model.Date(2024, time.September, 13),
	}
	assert.Equal(t, want, meetingDates(days))

	sixth := days[4]
	require.Equal(t, model.Date(2024, time.September, 6), sixth.Date)
	assert.False(t, sixth.MeetsToday)
	assert.True(t, sixth.IsException)
	assert.False(t, sixth.IsAbnormalMeeting)
}

func TestResolveNoMeetingIsNotSticky(t *testing.T) {
	cal := NewCalendar([]SpecialDate{
		{Date: model.Date(2024, time.September, 4), Name: "Break", Effect: NoMeeting},
	})
	days := Resolve(model.Date(2024, time.September, 2), model.Date(2024, time.September, 6),
		mustPattern(t, "MWF"), cal)

	// Only the 4th is suppressed; the 6th still meets.
	assert.Equal(t, []time.Time{
		model.Date(2024, time.September, 2),
		model.Date(2024, time.September, 6),
	}, meetingDates(days))
}

func TestResolveSemesterEndIsSticky(t *testing.T) {
	// Semester ends Friday 2024-12-13. The 13th itself gets the sentinel
	// effect (so it does not meet), and every later date is forced to
	// non-meeting.
	cal := NewCalendar([]SpecialDate{
		{Date: model.Date(2024, time.December, 13), Name: "Study", Effect: SemesterEnd},
	})
	days := Resolve(model.Date(2024, time.December, 9), model.Date(2024, time.December, 20),
		mustPattern(t, "MWF"), cal)

	assert.Equal(t, []time.Time{
		model.Date(2024, time.December, 9),
		model.Date(2024, time.December, 11),
	}, meetingDates(days))

	for _, d := range days {
		if !d.Date.Before(model.Date(2024, time.December, 13)) {
			assert.False(t, d.MeetsToday, "date %s is at or after semester end", d.Date)
		}
	}

	// Pattern days at or after the end are exceptions.
	for _, d := range days {
		if d.Date.After(model.Date(2024, time.December, 12)) && mustPattern(t, "MWF").Contains(d.Date.Weekday()) {
			assert.True(t, d.IsException, "date %s", d.Date)
		}
	}
}

func TestResolveSemesterEndDayOnPatternWeekdayStillEvaluated(t *testing.T) {
	// When the semester-end date carries a weekday effect... it cannot:
	// SemesterEnd is its own sentinel. But the day itself must be walked
	// before the sticky flag takes hold, which shows up as the END day
	// being classified (as an exception here) rather than dropped.
	cal := NewCalendar([]SpecialDate{
		{Date: model.Date(2024, time.December, 13), Name: "Exams Start", Effect: SemesterEnd},
	})
	days := Resolve(model.Date(2024, time.December, 13), model.Date(2024, time.December, 13),
		mustPattern(t, "F"), cal)

	require.Len(t, days, 1)
	assert.False(t, days[0].MeetsToday)
	assert.True(t, days[0].IsException)
}

func TestResolveAbnormalMeeting(t *testing.T) {
	// Saturday 2024-09-07 runs a Monday schedule: an MWF class meets that
	// day even though the pattern says otherwise.
	cal := NewCalendar([]SpecialDate{
		{Date: model.Date(2024, time.September, 7), Name: "Monday schedule", Effect: WeekdayEffect(time.Monday)},
	})
	days := Resolve(model.Date(2024, time.September, 2), model.Date(2024, time.September, 13),
		mustPattern(t, "MWF"), cal)

	var seventh DayClassification
	for _, d := range days {
		if model.SameDate(d.Date, model.Date(2024, time.September, 7)) {
			seventh = d
		}
	}
	assert.True(t, seventh.MeetsToday)
	assert.True(t, seventh.IsAbnormalMeeting)
	assert.False(t, seventh.IsException)
}

func TestResolveWeekdayOverrideSuppressesPatternDay(t *testing.T) {
	// Thursday 2024-04-18 runs a Friday schedule: a Thursday-only class
	// does not meet, and that is an exception.
	cal := NewCalendar([]SpecialDate{
		{Date: model.Date(2024, time.April, 18), Name: "Friday schedule", Effect: WeekdayEffect(time.Friday)},
	})
	days := Resolve(model.Date(2024, time.April, 18), model.Date(2024, time.April, 18),
		mustPattern(t, "R"), cal)

	require.Len(t, days, 1)
	assert.False(t, days[0].MeetsToday)
	assert.True(t, days[0].IsException)
	assert.False(t, days[0].IsAbnormalMeeting)
}

func TestResolveFlagsMutuallyExclusive(t *testing.T) {
	cal := NewCalendar([]SpecialDate{
		{Date: model.Date(2024, time.September, 6), Name: "Break", Effect: NoMeeting},
		{Date: model.Date(2024, time.September, 7), Name: "Monday schedule", Effect: WeekdayEffect(time.Monday)},
		{Date: model.Date(2024, time.September, 12), Name: "End", Effect: SemesterEnd},
	})
	days := Resolve(model.Date(2024, time.September, 2), model.Date(2024, time.September, 20),
		mustPattern(t, "MWF"), cal)

	for _, d := range days {
		assert.False(t, d.IsException && d.IsAbnormalMeeting, "date %s", d.Date)
	}
}

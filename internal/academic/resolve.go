package academic

import (
	"time"

	"github.com/kcarnold/calgen/internal/model"
)

// DayClassification is the resolver's verdict for one calendar day.
//
// IsException and IsAbnormalMeeting are mutually exclusive by construction:
// the former needs the pattern to match the true weekday, the latter needs
// it not to.
type DayClassification struct {
	Date time.Time

	// MeetsToday is whether the class actually meets on this date.
	MeetsToday bool

	// IsException: the pattern says meet, but the effective weekday (or
	// semester end) says no. These dates become EXDATE entries.
	IsException bool

	// IsAbnormalMeeting: the pattern says no, but the effective weekday
	// says yes (e.g. a Saturday running a Monday schedule). These become
	// standalone one-off events.
	IsAbnormalMeeting bool
}

// Resolve walks every date from start to end inclusive and classifies it
// against the meeting pattern and the special-date table.
//
// The semester-end date itself is still evaluated against the pattern; only
// days after it are forced to non-meeting. A NoMeeting date suppresses just
// that one day. If start is after end the result is empty.
func Resolve(start, end time.Time, pattern model.Pattern, cal *Calendar) []DayClassification {
	var out []DayClassification
	semesterEnded := false
	for cur := model.DateOf(start); !cur.After(model.DateOf(end)); cur = cur.AddDate(0, 0, 1) {
		trueDay := cur.Weekday()
		effective := WeekdayEffect(trueDay)
		if e, ok := cal.EffectFor(cur); ok {
			effective = e
		}

		normallyMeets := pattern.Contains(trueDay)
		meets := false
		if d, ok := effective.Weekday(); ok {
			meets = pattern.Contains(d)
		}
		meets = meets && !semesterEnded

		out = append(out, DayClassification{
			Date:              cur,
			MeetsToday:        meets,
			IsException:       normallyMeets && !meets,
			IsAbnormalMeeting: !normallyMeets && meets,
		})

		// Sticky: everything after the semester-end date is a non-meeting
		// day, but the date itself was classified above first.
		if effective.IsSemesterEnd() {
			semesterEnded = true
		}
	}
	return out
}

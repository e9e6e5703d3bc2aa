package academic

import (
	"errors"
	"time"
)

// ErrNoMeetings means a section's pattern never matched an effective
// weekday inside its date range. Callers should skip the section and warn
// rather than abort the whole run.
var ErrNoMeetings = errors.New("academic: no meeting days in range")

// Compacted is the compact recurring form of a classification stream: the
// real first/last meeting dates, the dates to carve out of the weekly rule,
// and the off-pattern dates that need standalone events.
type Compacted struct {
	FirstMeeting time.Time
	LastMeeting  time.Time

	// Exclusions holds exception dates at or before LastMeeting. Later
	// exceptions are dropped: the rule's UNTIL is LastMeeting, so nothing
	// beyond it can occur in the first place.
	Exclusions []time.Time

	// AbnormalMeetings holds every abnormal meeting date, wherever it
	// falls.
	AbnormalMeetings []time.Time
}

// Compact reduces a resolver classification stream to its Compacted form.
func Compact(days []DayClassification) (Compacted, error) {
	var c Compacted
	found := false
	for _, d := range days {
		if !d.MeetsToday {
			continue
		}
		if !found {
			c.FirstMeeting = d.Date
			found = true
		}
		c.LastMeeting = d.Date
	}
	if !found {
		return Compacted{}, ErrNoMeetings
	}

	for _, d := range days {
		if d.IsException && !d.Date.After(c.LastMeeting) {
			c.Exclusions = append(c.Exclusions, d.Date)
		}
		if d.IsAbnormalMeeting {
			c.AbnormalMeetings = append(c.AbnormalMeetings, d.Date)
		}
	}
	return c, nil
}

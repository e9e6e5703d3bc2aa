package ics

import (
	"time"

	"github.com/samber/mo"

	"github.com/kcarnold/calgen/internal/academic"
	"github.com/kcarnold/calgen/internal/model"
)

// BuildEvents turns one section's compacted meeting data into its event
// descriptors: the main weekly event plus one single-occurrence event per
// abnormal meeting date (a date the weekly rule cannot express).
//
// A malformed meeting time returns a *TimeParseError; the caller is
// expected to skip the section and warn rather than abort the run.
func BuildEvents(sec model.Section, c academic.Compacted) ([]Event, error) {
	start, end, err := ParseMeetingTime(sec.MeetingTime)
	if err != nil {
		return nil, err
	}

	events := []Event{{
		FirstDate:  c.FirstMeeting,
		LastDate:   mo.Some(c.LastMeeting),
		Summary:    sec.Name,
		Location:   sec.Location,
		Start:      start,
		End:        end,
		Pattern:    mo.Some(sec.Pattern),
		Exclusions: c.Exclusions,
	}}

	for _, date := range c.AbnormalMeetings {
		events = append(events, Event{
			FirstDate: date,
			LastDate:  mo.None[time.Time](),
			Summary:   sec.Name,
			Location:  sec.Location,
			Start:     start,
			End:       end,
			Pattern:   mo.None[model.Pattern](),
		})
	}
	return events, nil
}

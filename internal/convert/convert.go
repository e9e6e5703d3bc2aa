// Package convert runs the per-section resolve → compact → build pipeline
// and serializes the result into one calendar document.
package convert

import (
	"errors"
	"fmt"
	"time"

	"github.com/kcarnold/calgen/internal/academic"
	"github.com/kcarnold/calgen/internal/ics"
	appLog "github.com/kcarnold/calgen/internal/log"
	"github.com/kcarnold/calgen/internal/model"
)

// Options parameterizes one conversion run.
type Options struct {
	// Profile carries the institutional output constants. Zero value means
	// ics.DefaultProfile.
	Profile ics.Profile

	// IncludeSpecialDates adds an all-day marker event for every special
	// date that falls inside the sections' combined date range.
	IncludeSpecialDates bool
}

// Warning records one recoverable per-section problem. The run continues;
// the section is simply left out of the output.
type Warning struct {
	Section string
	Reason  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Section, w.Reason)
}

// Result is the outcome of a conversion run.
type Result struct {
	// ICS is the serialized calendar document.
	ICS string

	// Events and AllDay are the descriptors behind ICS, kept so callers
	// can build previews without re-parsing the document.
	Events []ics.Event
	AllDay []ics.AllDayEvent

	// Warnings lists sections that were skipped and why.
	Warnings []Warning
}

// Convert runs the whole pipeline for a set of sections against the
// academic calendar. Per-section failures (unparseable meeting time, a
// pattern that never meets) are isolated into Warnings; only structural
// problems return an error.
func Convert(sections []model.Section, cal *academic.Calendar, opts Options) (Result, error) {
	if opts.Profile == (ics.Profile{}) {
		opts.Profile = ics.DefaultProfile()
	}

	var res Result

	for _, dup := range cal.Duplicates() {
		appLog.Warn("special-dates table lists a date twice; first entry wins",
			"date", dup.Format("2006-01-02"))
	}

	var earliest, latest time.Time
	for _, sec := range sections {
		if earliest.IsZero() || sec.StartDate.Before(earliest) {
			earliest = sec.StartDate
		}
		if sec.EndDate.After(latest) {
			latest = sec.EndDate
		}

		days := academic.Resolve(sec.StartDate, sec.EndDate, sec.Pattern, cal)
		compacted, err := academic.Compact(days)
		if err != nil {
			if errors.Is(err, academic.ErrNoMeetings) {
				res.Warnings = append(res.Warnings, Warning{Section: sec.Name, Reason: "no meeting days in its date range"})
				appLog.Warn("skipping section", "section", sec.Name, "reason", "no meeting days")
				continue
			}
			return Result{}, err
		}

		events, err := ics.BuildEvents(sec, compacted)
		if err != nil {
			var tpe *ics.TimeParseError
			if errors.As(err, &tpe) {
				res.Warnings = append(res.Warnings, Warning{Section: sec.Name, Reason: err.Error()})
				appLog.Warn("skipping section", "section", sec.Name, "reason", err)
				continue
			}
			return Result{}, err
		}
		res.Events = append(res.Events, events...)
	}

	if opts.IncludeSpecialDates && !earliest.IsZero() {
		for _, sd := range cal.Between(earliest, latest) {
			res.AllDay = append(res.AllDay, ics.AllDayEvent{Date: sd.Date, Summary: sd.Name})
		}
	}

	doc, err := ics.NewWriter(opts.Profile).Serialize(res.AllDay, res.Events)
	if err != nil {
		return Result{}, err
	}
	res.ICS = doc
	return res, nil
}

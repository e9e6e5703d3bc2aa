package ics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kcarnold/calgen/internal/model"
)

// TimeParseError reports a meeting-time string that is not of the form
// "H:MM AM - H:MM PM". It carries the offending input so the warning is
// actionable against the source spreadsheet.
type TimeParseError struct {
	Input string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("ics: cannot parse meeting time %q", e.Input)
}

var clockRe = regexp.MustCompile(`^(\d+):(\d+) (AM|PM)`)

// ParseClock parses a time like "1:00 PM" into a 24-hour ClockTime.
// An hour literal of 12 is treated as 0 before the PM adjustment, so
// "12:15 PM" is 12:15 and "12:05 AM" is 00:05.
func ParseClock(s string) (model.ClockTime, error) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return model.ClockTime{}, &TimeParseError{Input: s}
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour == 12 {
		hour = 0
	}
	if m[3] == "PM" {
		hour += 12
	}
	return model.ClockTime{Hour: hour, Minute: minute}, nil
}

// ParseMeetingTime splits a Workday meeting time such as
// "9:00 AM - 9:50 AM" and parses both halves.
func ParseMeetingTime(s string) (start, end model.ClockTime, err error) {
	parts := strings.SplitN(s, " - ", 2)
	if len(parts) != 2 {
		return model.ClockTime{}, model.ClockTime{}, &TimeParseError{Input: s}
	}
	start, err = ParseClock(strings.TrimSpace(parts[0]))
	if err != nil {
		return model.ClockTime{}, model.ClockTime{}, err
	}
	end, err = ParseClock(strings.TrimSpace(parts[1]))
	if err != nil {
		return model.ClockTime{}, model.ClockTime{}, err
	}
	return start, end, nil
}

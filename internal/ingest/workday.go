// Package ingest reads the Excel file Workday exports for a teaching or
// enrolled-courses schedule and turns it into section records the core can
// consume.
package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	appLog "github.com/kcarnold/calgen/internal/log"
	"github.com/kcarnold/calgen/internal/model"
)

// ExpectedColumns are the spreadsheet columns the converter needs. When any
// is missing the whole run aborts: downstream parsing cannot proceed
// meaningfully without them.
var ExpectedColumns = []string{"Course Section", "Meeting Time", "Location", "Start Date", "End Date"}

// MissingFieldError reports required columns absent from the spreadsheet.
type MissingFieldError struct {
	Columns []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("ingest: spreadsheet is missing expected columns: %s", strings.Join(e.Columns, ", "))
}

// meetingTimeRe takes apart the Workday "Meeting Time" field:
// "MWF | 9:00 AM - 9:50 AM | ...".
var meetingTimeRe = regexp.MustCompile(`^(\w+) \| ([^|]+)`)

// dateLayouts are the date formats seen in Workday exports.
var dateLayouts = []string{"2006-01-02", "1/2/2006", "01-02-06", "1/2/06"}

// ReadWorkbook opens a Workday .xlsx export and extracts its sections from
// the first sheet.
func ReadWorkbook(path string) ([]model.Section, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: opening %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("ingest: reading sheet %q: %w", sheet, err)
	}
	return SectionsFromRows(rows)
}

// rawRow is one schedule row before meeting-time parsing and merging.
type rawRow struct {
	section     string
	meetingTime string
	location    string
	startDate   string
	endDate     string
}

// SectionsFromRows converts raw sheet rows into sections. It accepts each
// Workday layout (plain table, the "View My ..." export with leading header
// rows, and the student "My Enrolled Courses" export, which names the
// section column just "Section") by scanning for the real header row.
//
// Rows with a Status of Canceled are dropped. Rows sharing a section and
// meeting time are shadow reservations of extra rooms; their locations are
// merged into one row. Per-row parse problems skip that row with a warning.
func SectionsFromRows(rows [][]string) ([]model.Section, error) {
	headerIdx, cols, err := findHeader(rows)
	if err != nil {
		return nil, err
	}

	raws := collectRows(rows[headerIdx+1:], cols)
	raws = mergeShadowReservations(raws)

	sections := make([]model.Section, 0, len(raws))
	for _, r := range raws {
		sec, err := parseRow(r)
		if err != nil {
			appLog.Warn("skipping schedule row", "section", r.section, "reason", err)
			continue
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

// findHeader locates the row carrying the column names and returns its
// index plus a name→column mapping.
func findHeader(rows [][]string) (int, map[string]int, error) {
	for idx, row := range rows {
		cols := make(map[string]int, len(row))
		for i, cell := range row {
			name := strings.TrimSpace(cell)
			// The student export calls the section column "Section".
			if name == "Section" {
				name = "Course Section"
			}
			if _, ok := cols[name]; !ok {
				cols[name] = i
			}
		}
		if _, ok := cols["Course Section"]; !ok {
			continue
		}
		if _, ok := cols["Meeting Time"]; !ok {
			continue
		}
		var missing []string
		for _, want := range ExpectedColumns {
			if _, ok := cols[want]; !ok {
				missing = append(missing, want)
			}
		}
		if len(missing) > 0 {
			return 0, nil, &MissingFieldError{Columns: missing}
		}
		return idx, cols, nil
	}
	return 0, nil, &MissingFieldError{Columns: ExpectedColumns}
}

func collectRows(rows [][]string, cols map[string]int) []rawRow {
	statusCol, hasStatus := cols["Status"]

	var out []rawRow
	for _, row := range rows {
		if hasStatus && cell(row, statusCol) == "Canceled" {
			continue
		}
		r := rawRow{
			section:     cell(row, cols["Course Section"]),
			meetingTime: cell(row, cols["Meeting Time"]),
			location:    cell(row, cols["Location"]),
			startDate:   cell(row, cols["Start Date"]),
			endDate:     cell(row, cols["End Date"]),
		}
		if r.section == "" && r.meetingTime == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func mergeShadowReservations(rows []rawRow) []rawRow {
	type key struct{ section, meetingTime string }
	index := make(map[key]int, len(rows))
	var out []rawRow
	for _, r := range rows {
		k := key{r.section, r.meetingTime}
		if i, ok := index[k]; ok {
			if r.location != "" {
				out[i].location += ", " + r.location
			}
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}

func parseRow(r rawRow) (model.Section, error) {
	m := meetingTimeRe.FindStringSubmatch(r.meetingTime)
	if m == nil {
		return model.Section{}, fmt.Errorf("unrecognized meeting time %q", r.meetingTime)
	}
	// Workday spells Thursday "TH"; the pattern alphabet uses "R".
	days := strings.ReplaceAll(m[1], "TH", "R")
	pattern, err := model.ParsePattern(days)
	if err != nil {
		return model.Section{}, err
	}

	start, err := parseDate(r.startDate)
	if err != nil {
		return model.Section{}, fmt.Errorf("bad start date: %w", err)
	}
	end, err := parseDate(r.endDate)
	if err != nil {
		return model.Section{}, fmt.Errorf("bad end date: %w", err)
	}

	return model.Section{
		Name:        r.section,
		Location:    r.location,
		Pattern:     pattern,
		MeetingTime: strings.TrimSpace(m[2]),
		StartDate:   start,
		EndDate:     end,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Abbreviate applies the configured short names to section names and
// locations, the CLI stand-in for the original interactive shortening.
func Abbreviate(sections []model.Section, names, locations map[string]string) []model.Section {
	out := make([]model.Section, len(sections))
	for i, sec := range sections {
		if short, ok := names[sec.Name]; ok {
			sec.Name = short
		}
		if short, ok := locations[sec.Location]; ok {
			sec.Location = short
		}
		out[i] = sec
	}
	return out
}

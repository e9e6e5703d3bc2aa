package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kcarnold/calgen/internal/academic"
	"github.com/kcarnold/calgen/internal/config"
	"github.com/kcarnold/calgen/internal/convert"
	"github.com/kcarnold/calgen/internal/ics"
	"github.com/kcarnold/calgen/internal/ingest"
	appLog "github.com/kcarnold/calgen/internal/log"
	"github.com/kcarnold/calgen/internal/model"
	"github.com/kcarnold/calgen/internal/preview"
)

type flagConfig struct {
	configPath   string
	schedulePath string
	specialDates string
	outPath      string
	preview      bool
	verbose      bool
}

func main() {
	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	if flags.schedulePath == "" {
		fmt.Fprintln(os.Stderr, "usage: calgen -schedule <workday-export.xlsx> [-o out.ics]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.specialDates != "" {
		cfg.SpecialDates = flags.specialDates
	}

	cal, err := loadCalendar(cfg.SpecialDates)
	if err != nil {
		appLog.Error("failed to load special dates", err, "path", cfg.SpecialDates)
		os.Exit(1)
	}

	sections, err := ingest.ReadWorkbook(flags.schedulePath)
	if err != nil {
		appLog.Error("failed to read schedule", err, "path", flags.schedulePath)
		os.Exit(1)
	}
	sections = ingest.Abbreviate(sections, cfg.Abbreviations.Sections, cfg.Abbreviations.Locations)
	appLog.Info("schedule loaded", "path", flags.schedulePath, "sections", len(sections))

	result, err := convert.Convert(sections, cal, convert.Options{
		Profile: ics.Profile{
			ProdID:     cfg.ProdID,
			TimezoneID: cfg.Timezone,
		},
		IncludeSpecialDates: cfg.SpecialDatesIncluded(),
	})
	if err != nil {
		appLog.Error("conversion failed", err)
		os.Exit(1)
	}
	for _, w := range result.Warnings {
		appLog.Warn("section skipped", "section", w.Section, "reason", w.Reason)
	}

	if err := os.WriteFile(flags.outPath, []byte(result.ICS), 0o644); err != nil {
		appLog.Error("failed to write calendar", err, "path", flags.outPath)
		os.Exit(1)
	}
	appLog.Info("calendar written",
		"path", flags.outPath,
		"events", len(result.Events),
		"all_day", len(result.AllDay),
		"skipped", len(result.Warnings),
	)

	if flags.preview {
		if err := printPreview(result, cfg.Timezone, sections); err != nil {
			appLog.Error("preview failed", err)
			os.Exit(1)
		}
	}
}

func loadCalendar(path string) (*academic.Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return academic.LoadSpecialDates(f)
}

// printPreview expands the generated events back into concrete occurrences
// across the sections' combined date range and prints a weekly table.
func printPreview(result convert.Result, timezone string, sections []model.Section) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}

	var from, to time.Time
	for _, sec := range sections {
		if from.IsZero() || sec.StartDate.Before(from) {
			from = sec.StartDate
		}
		if sec.EndDate.After(to) {
			to = sec.EndDate
		}
	}
	if from.IsZero() {
		return nil
	}

	occs, err := preview.Expand(result.Events,
		time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc),
		time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, loc),
		loc)
	if err != nil {
		return err
	}
	fmt.Print(preview.WeeklyTable(occs))
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "calgen.yaml", "Path to config file (created with defaults if absent)")
	flag.StringVar(&cfg.schedulePath, "schedule", "", "Path to the Workday schedule export (.xlsx)")
	flag.StringVar(&cfg.specialDates, "special-dates", "", "Path to the special-dates CSV (overrides config)")
	flag.StringVar(&cfg.outPath, "o", "teaching_schedule.ics", "Output .ics path")
	flag.BoolVar(&cfg.preview, "preview", false, "Print a weekly meeting table to stdout")
	flag.BoolVar(&cfg.verbose, "v", false, "Verbose (debug) logging")

	flag.Parse()

	return cfg
}

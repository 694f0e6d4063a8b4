package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eqwho/eqwho-go/internal/prefs"
	"github.com/eqwho/eqwho-go/pkg/eqwho"
)

var (
	// parse flags
	parseSince    string
	parseUntil    string
	parseLast     time.Duration
	parseZones    []string
	parseFormat   string
	parseClassMap string
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse EverQuest log files (batch mode)",
	Long: `Parse EverQuest log files and output every /who result found.

Unlike 'watch', this command processes existing log content without
real-time following. Use it to pull historical /who results out of a
log, for example the raid dumps from last night.

Times accept RFC3339 ("2025-07-01T22:00:00Z") or the log's own style
("Tue Jul 01 22:00:00 2025"). Pass "-" as a file to read stdin.

Examples:
  # Parse the auto-detected log
  eqwho parse

  # Parse specific files
  eqwho parse eqlog_Velissa_project1999.txt eqlog_Brakthor_project1999.txt

  # Only results from the last 4 hours
  eqwho parse --last 4h

  # Filter by time range
  eqwho parse --since "Tue Jul 01 20:00:00 2025" --until "Tue Jul 01 23:00:00 2025"

  # Only raid zones, as DKP rosters
  eqwho parse --zone "Kael Drakkal" --format roster

  # Pipe to jq for filtering
  eqwho parse | jq 'select(.location == "East Commons")'`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseSince, "since", "",
		"Only results at/after this time")
	parseCmd.Flags().StringVar(&parseUntil, "until", "",
		"Only results before this time")
	parseCmd.Flags().DurationVar(&parseLast, "last", 0,
		"Only results from the last duration (e.g. 30m, 4h, 24h)")
	parseCmd.Flags().StringSliceVarP(&parseZones, "zone", "z", nil,
		"Only results from these zones (repeatable)")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty, roster, raw")
	parseCmd.Flags().StringVar(&parseClassMap, "class-map", "",
		"YAML file with extra class name mappings")

	registerFormatCompletion(parseCmd, "format")
}

func runParse(cmd *cobra.Command, args []string) error {
	// Validate format
	if !ValidFormats[parseFormat] {
		return fmt.Errorf("invalid format %q: must be one of: %s", parseFormat, formatList())
	}

	// Normalize and validate zones
	zones, err := NormalizeZones(parseZones)
	if err != nil {
		return err
	}

	userClasses, err := loadUserClasses(parseClassMap)
	if err != nil {
		return err
	}

	// Validate time options are not in conflict
	if parseLast > 0 && parseSince != "" {
		return fmt.Errorf("--last and --since cannot be used together")
	}

	sinceTime, untilTime, err := parseTimeRange(parseSince, parseUntil)
	if err != nil {
		return err
	}
	if parseLast > 0 {
		sinceTime = time.Now().Add(-parseLast)
	}

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build parse options
	var opts []eqwho.ParseOption

	if !sinceTime.IsZero() || !untilTime.IsZero() {
		opts = append(opts, eqwho.WithTimeRange(sinceTime, untilTime))
	}
	if len(zones) > 0 {
		opts = append(opts, eqwho.WithParseZones(zones...))
	}

	// No files given: fall back to the remembered or auto-detected log
	if len(args) == 0 {
		saved, _ := prefs.Load(prefs.DefaultPath())
		path, err := resolveLogPath(nil, saved)
		if err != nil {
			return err
		}
		args = []string{path}
	}

	conv := eqwho.NewConverter(userClasses)

	for _, path := range args {
		seq := eqwho.ParseFile(ctx, path, opts...)
		if path == "-" {
			seq = eqwho.ParseReader(ctx, os.Stdin, opts...)
		}

		for snap, err := range seq {
			if err != nil {
				// Ctrl+C: exit silently
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("parse error: %w", err)
			}

			if err := OutputSnapshot(parseFormat, conv, snap, os.Stdout); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		}
	}

	return nil
}

// parseTimeRange parses since and until strings into time.Time values.
func parseTimeRange(since, until string) (time.Time, time.Time, error) {
	var sinceTime, untilTime time.Time
	var err error

	if since != "" {
		sinceTime, err = parseTimeFlag(since)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --since: %w", err)
		}
	}

	if until != "" {
		untilTime, err = parseTimeFlag(until)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --until: %w", err)
		}
	}

	// Validate that since is before until
	if !sinceTime.IsZero() && !untilTime.IsZero() && sinceTime.After(untilTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("--since must be before --until")
	}

	return sinceTime, untilTime, nil
}

// parseTimeFlag parses a time given on the command line, accepting RFC3339
// and the log's own bracketless timestamp style.
func parseTimeFlag(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t := eqwho.ParseTimestamp(value); !t.IsZero() {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (expected RFC3339 like 2025-07-01T22:00:00Z or log style like \"Tue Jul 01 22:00:00 2025\")", value)
}

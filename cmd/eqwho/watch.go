package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eqwho/eqwho-go/internal/prefs"
	"github.com/eqwho/eqwho-go/pkg/eqwho"
)

var (
	// watch flags
	watchInterval time.Duration
	watchFormat   string
	watchZones    []string
	watchClassMap string
	watchNoPrefs  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [logfile]",
	Short: "Monitor an EverQuest log and output /who results",
	Long: `Monitor an EverQuest log file in real-time and output /who results
as they are captured.

Results are output as JSON Lines by default (one JSON object per line),
which makes it easy to process with tools like jq. Only results written
after the watch starts are reported; use 'parse' for history.

The log file argument may be a file or a directory (the newest
eqlog_*.txt inside is picked). Without an argument the last used log is
reused, falling back to auto-detection of the EverQuest install.

Examples:
  # Monitor with default settings (auto-detect log file)
  eqwho watch

  # Monitor a specific character's log
  eqwho watch "C:\Everquest\Logs\eqlog_Velissa_project1999.txt"

  # Only report /who results from certain zones
  eqwho watch --zone "Kael Drakkal" --zone "Plane of Hate"

  # Human-readable output
  eqwho watch --format pretty

  # DKP rosters as they come in
  eqwho watch --format roster

  # Pipe to jq for filtering
  eqwho watch | jq 'select(.player_count > 20)'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", eqwho.DefaultPollInterval,
		"How often to check the log for new lines")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty, roster, raw")
	watchCmd.Flags().StringSliceVarP(&watchZones, "zone", "z", nil,
		"Only output results from these zones (repeatable)")
	watchCmd.Flags().StringVar(&watchClassMap, "class-map", "",
		"YAML file with extra class name mappings")
	watchCmd.Flags().BoolVar(&watchNoPrefs, "no-save-prefs", false,
		"Do not remember the log file for the next run")

	registerFormatCompletion(watchCmd, "format")
}

func runWatch(cmd *cobra.Command, args []string) error {
	// Validate format
	if !ValidFormats[watchFormat] {
		return fmt.Errorf("invalid format %q: must be one of: %s", watchFormat, formatList())
	}

	// Normalize and validate zones
	zones, err := NormalizeZones(watchZones)
	if err != nil {
		return err
	}

	userClasses, err := loadUserClasses(watchClassMap)
	if err != nil {
		return err
	}

	// Saved preferences fill in what the command line leaves out
	saved, _ := prefs.Load(prefs.DefaultPath())
	if !cmd.Flags().Changed("format") && ValidFormats[saved.Format] {
		watchFormat = saved.Format
	}

	path, err := resolveLogPath(args, saved)
	if err != nil {
		return err
	}

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapCh := make(chan eqwho.Snapshot, 16)
	errCh := make(chan error, 1)

	// Build tracker options using functional options pattern
	trackOpts := []eqwho.TrackerOption{
		eqwho.WithPollInterval(watchInterval),
		eqwho.WithOnSnapshot(func(s eqwho.Snapshot) {
			select {
			case snapCh <- s:
			case <-ctx.Done():
			}
		}),
		eqwho.WithOnError(func(err error) {
			select {
			case errCh <- err:
			default:
			}
		}),
	}

	if len(zones) > 0 {
		trackOpts = append(trackOpts, eqwho.WithZones(zones...))
	}
	if userClasses != nil {
		trackOpts = append(trackOpts, eqwho.WithClassMap(userClasses))
	}

	// Setup logger based on verbose flag
	if verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		trackOpts = append(trackOpts, eqwho.WithLogger(logger))
	}

	tracker := eqwho.NewTracker(trackOpts...)
	if err := tracker.Start(path); err != nil {
		return err
	}
	defer tracker.Stop()

	if !watchNoPrefs {
		_ = prefs.Save(prefs.DefaultPath(), prefs.Prefs{
			LastLogFile: path,
			Format:      watchFormat,
		})
	}

	conv := eqwho.NewConverter(userClasses)

	// Output loop
	for {
		select {
		case snap := <-snapCh:
			if err := OutputSnapshot(watchFormat, conv, snap, os.Stdout); err != nil {
				return fmt.Errorf("output error: %w", err)
			}

		case err := <-errCh:
			// The tracker stops itself on poll errors; report and exit
			return err

		case <-ctx.Done():
			return nil
		}
	}
}

// resolveLogPath picks the log file to monitor: an explicit argument wins,
// then the file remembered from the last run, then auto-detection.
func resolveLogPath(args []string, saved prefs.Prefs) (string, error) {
	if len(args) > 0 {
		return eqwho.FindLogFile(args[0])
	}
	if saved.LastLogFile != "" {
		if info, err := os.Stat(saved.LastLogFile); err == nil && !info.IsDir() {
			return saved.LastLogFile, nil
		}
	}
	return eqwho.FindLogFile("")
}

// loadUserClasses reads extra class mappings when a path was given.
func loadUserClasses(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	return eqwho.LoadClassMap(path)
}

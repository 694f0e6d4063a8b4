package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eqwho/eqwho-go/internal/prefs"
	"github.com/eqwho/eqwho-go/pkg/eqwho"
)

var (
	// convert flags
	convertIndex    int
	convertAll      bool
	convertOut      string
	convertClassMap string
)

var convertCmd = &cobra.Command{
	Use:   "convert [logfile]",
	Short: "Convert a captured /who result to the DKP import format",
	Long: `Convert a /who result to tab-separated DKP attendance records.

The log is scanned for /who results, duplicates are dropped, and the
selected result is converted to one record per player:

  0<TAB>PlayerName<TAB>Level<TAB>Class

Class titles like "Phantasmist" or "Myrmidon" are folded to their base
class. Results are indexed newest first: index 0 is the most recent
/who in the log.

Examples:
  # Convert the most recent /who result
  eqwho convert

  # Convert the third newest
  eqwho convert --index 2

  # Convert every /who result in a specific log
  eqwho convert --all eqlog_Velissa_project1999.txt

  # Write the roster to a file for the DKP site
  eqwho convert --out raid_roster.txt

  # Convert a log streamed on stdin
  tail -c 100000 eqlog_Velissa_project1999.txt | eqwho convert -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().IntVarP(&convertIndex, "index", "i", 0,
		"Which /who result to convert, newest first")
	convertCmd.Flags().BoolVarP(&convertAll, "all", "a", false,
		"Convert every /who result in the log")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "",
		"Write the roster to this file instead of stdout")
	convertCmd.Flags().StringVar(&convertClassMap, "class-map", "",
		"YAML file with extra class name mappings")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if convertAll && cmd.Flags().Changed("index") {
		return fmt.Errorf("--index and --all cannot be used together")
	}
	if convertIndex < 0 {
		return fmt.Errorf("--index must not be negative")
	}

	userClasses, err := loadUserClasses(convertClassMap)
	if err != nil {
		return err
	}

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var path string
	if len(args) > 0 && args[0] == "-" {
		path = "-"
	} else {
		saved, _ := prefs.Load(prefs.DefaultPath())
		path, err = resolveLogPath(args, saved)
		if err != nil {
			return err
		}
	}

	seq := eqwho.ParseFile(ctx, path)
	if path == "-" {
		seq = eqwho.ParseReader(ctx, os.Stdin)
	}

	// Collect into a store so indexing matches the watch view: newest
	// first, duplicates dropped.
	store := eqwho.NewStore()
	for snap, err := range seq {
		if err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("parse error: %w", err)
		}
		store.Add(snap)
	}

	if store.Len() == 0 {
		return fmt.Errorf("no /who results found in %s", path)
	}

	conv := eqwho.NewConverter(userClasses)

	var rosters []string
	if convertAll {
		for _, snap := range store.All() {
			rosters = append(rosters, conv.Convert(snap))
		}
	} else {
		snap, err := store.Get(convertIndex)
		if err != nil {
			return err
		}
		rosters = append(rosters, conv.Convert(snap))
	}

	text := strings.Join(rosters, "\n\n") + "\n"

	if convertOut != "" {
		return os.WriteFile(convertOut, []byte(text), 0o644)
	}
	_, err = fmt.Print(text)
	return err
}

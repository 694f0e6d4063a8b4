package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/eqwho/eqwho-go/pkg/eqwho"
)

// ValidFormats maps CLI format names to validity.
// Used for both validation and completion.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
	"roster": true,
	"raw":    true,
}

// FormatNames returns a sorted list of valid format names.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for name := range ValidFormats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// formatList renders the valid format names for error messages.
func formatList() string {
	return strings.Join(FormatNames(), ", ")
}

// OutputSnapshot writes a snapshot to w in the requested format.
func OutputSnapshot(format string, conv *eqwho.Converter, snap eqwho.Snapshot, w io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(snap, w)
	case "pretty":
		return OutputPretty(snap, w)
	case "roster":
		return OutputRoster(conv, snap, w)
	case "raw":
		return OutputRaw(snap, w)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes a snapshot as a single JSON line.
func OutputJSON(snap eqwho.Snapshot, w io.Writer) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// OutputPretty writes the snapshot's one-line summary.
func OutputPretty(snap eqwho.Snapshot, w io.Writer) error {
	_, err := fmt.Fprintln(w, snap.Summary())
	return err
}

// OutputRoster writes the snapshot's roster in the DKP import format, one
// tab-separated record per player.
func OutputRoster(conv *eqwho.Converter, snap eqwho.Snapshot, w io.Writer) error {
	_, err := fmt.Fprintln(w, conv.Convert(snap))
	return err
}

// OutputRaw writes the timestamped block followed by a blank separator line.
func OutputRaw(snap eqwho.Snapshot, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n\n", snap.Export())
	return err
}

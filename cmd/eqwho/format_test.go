package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/eqwho/eqwho-go/pkg/eqwho"
)

var updateGolden = flag.Bool("update-golden", false, "update golden files")

// formatSnapshot returns the fixed snapshot used across format tests.
func formatSnapshot() eqwho.Snapshot {
	return eqwho.Snapshot{
		Timestamp: "Tue Jul 01 22:08:30 2025",
		Lines: []string{
			"Players on EverQuest:",
			"---------------------------",
			"[60 Myrmidon] Brakthor (Barbarian)",
			"There are 1 players in Kael Drakkal.",
		},
		Location:    "Kael Drakkal",
		PlayerCount: 1,
	}
}

func TestValidFormats(t *testing.T) {
	tests := []struct {
		format string
		valid  bool
	}{
		{"jsonl", true},
		{"pretty", true},
		{"roster", true},
		{"raw", true},
		{"json", false},
		{"xml", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got := ValidFormats[tt.format]
			if got != tt.valid {
				t.Errorf("ValidFormats[%q] = %v, want %v", tt.format, got, tt.valid)
			}
		})
	}
}

func TestFormatNames(t *testing.T) {
	want := []string{"jsonl", "pretty", "raw", "roster"}
	if got := FormatNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("FormatNames() = %v, want %v", got, want)
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputJSON(formatSnapshot(), &buf); err != nil {
		t.Fatalf("OutputJSON() error = %v", err)
	}

	// Verify it's valid JSON
	var decoded eqwho.Snapshot
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("OutputJSON() produced invalid JSON: %v", err)
	}

	if decoded.Location != "Kael Drakkal" {
		t.Errorf("decoded.Location = %q, want %q", decoded.Location, "Kael Drakkal")
	}
	if decoded.PlayerCount != 1 {
		t.Errorf("decoded.PlayerCount = %d, want 1", decoded.PlayerCount)
	}
	if len(decoded.Lines) != 4 {
		t.Errorf("decoded.Lines has %d lines, want 4", len(decoded.Lines))
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("OutputJSON() output does not end with newline")
	}
}

func TestOutputPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputPretty(formatSnapshot(), &buf); err != nil {
		t.Fatalf("OutputPretty() error = %v", err)
	}

	want := "[Tue Jul 01 22:08:30 2025] 1 players in Kael Drakkal\n"
	if buf.String() != want {
		t.Errorf("OutputPretty() = %q, want %q", buf.String(), want)
	}
}

func TestOutputRoster(t *testing.T) {
	var buf bytes.Buffer
	conv := eqwho.NewConverter(nil)
	if err := OutputRoster(conv, formatSnapshot(), &buf); err != nil {
		t.Fatalf("OutputRoster() error = %v", err)
	}

	want := "0\tBrakthor\t60\tWarrior\n"
	if buf.String() != want {
		t.Errorf("OutputRoster() = %q, want %q", buf.String(), want)
	}
}

func TestOutputRaw(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputRaw(formatSnapshot(), &buf); err != nil {
		t.Fatalf("OutputRaw() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "[Tue Jul 01 22:08:30 2025]\nPlayers on EverQuest:\n") {
		t.Errorf("OutputRaw() does not start with timestamped block: %q", out)
	}
	if !strings.HasSuffix(out, "There are 1 players in Kael Drakkal.\n\n") {
		t.Errorf("OutputRaw() does not end with blank separator: %q", out)
	}
}

func TestOutputSnapshot(t *testing.T) {
	tests := []struct {
		format    string
		wantErr   bool
		checkFunc func(string) bool
	}{
		{
			format:  "jsonl",
			wantErr: false,
			checkFunc: func(s string) bool {
				return strings.Contains(s, `"location":"Kael Drakkal"`)
			},
		},
		{
			format:  "pretty",
			wantErr: false,
			checkFunc: func(s string) bool {
				return strings.Contains(s, "1 players in Kael Drakkal")
			},
		},
		{
			format:  "roster",
			wantErr: false,
			checkFunc: func(s string) bool {
				return strings.Contains(s, "0\tBrakthor\t60\tWarrior")
			},
		},
		{
			format:  "raw",
			wantErr: false,
			checkFunc: func(s string) bool {
				return strings.Contains(s, "Players on EverQuest:")
			},
		},
		{
			format:  "unknown",
			wantErr: true,
			checkFunc: func(s string) bool {
				return true
			},
		},
	}

	conv := eqwho.NewConverter(nil)
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := OutputSnapshot(tt.format, conv, formatSnapshot(), &buf)

			if (err != nil) != tt.wantErr {
				t.Errorf("OutputSnapshot() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && !tt.checkFunc(buf.String()) {
				t.Errorf("OutputSnapshot() output check failed: %q", buf.String())
			}
		})
	}
}

// TestOutputSnapshot_Golden tests output formats using golden files.
// Run with -update-golden to update the golden files.
func TestOutputSnapshot_Golden(t *testing.T) {
	tests := []struct {
		name   string
		format string
	}{
		{name: "jsonl_snapshot", format: "jsonl"},
		{name: "pretty_snapshot", format: "pretty"},
		{name: "roster_snapshot", format: "roster"},
		{name: "raw_snapshot", format: "raw"},
	}

	// Support both flag and env var for updating golden files
	update := *updateGolden || os.Getenv("UPDATE_GOLDEN") != ""

	conv := eqwho.NewConverter(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := OutputSnapshot(tt.format, conv, formatSnapshot(), &buf); err != nil {
				t.Fatalf("OutputSnapshot() error = %v", err)
			}

			golden := filepath.Join("testdata", "golden", tt.name+".golden")

			if update {
				if err := os.MkdirAll(filepath.Dir(golden), 0755); err != nil {
					t.Fatalf("failed to create golden dir: %v", err)
				}
				if err := os.WriteFile(golden, buf.Bytes(), 0644); err != nil {
					t.Fatalf("failed to write golden file: %v", err)
				}
				t.Logf("updated golden file: %s", golden)
				return
			}

			expected, err := os.ReadFile(golden)
			if err != nil {
				t.Fatalf("failed to read golden file %s: %v\nRun with -update-golden to create it", golden, err)
			}

			// Normalize line endings for cross-platform compatibility
			got := bytes.ReplaceAll(buf.Bytes(), []byte("\r\n"), []byte("\n"))
			want := bytes.ReplaceAll(expected, []byte("\r\n"), []byte("\n"))

			if !bytes.Equal(got, want) {
				t.Errorf("output mismatch for %s:\ngot:\n%s\nwant:\n%s", golden, got, want)
			}
		})
	}
}

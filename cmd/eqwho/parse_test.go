package main

import (
	"strings"
	"testing"
	"time"
)

func TestParseTimeFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			value: "2025-07-01T22:00:00Z",
			want:  time.Date(2025, 7, 1, 22, 0, 0, 0, time.UTC),
		},
		{
			name:  "log style",
			value: "Tue Jul 01 22:00:00 2025",
			want:  time.Date(2025, 7, 1, 22, 0, 0, 0, time.Local),
		},
		{
			name:    "garbage",
			value:   "not-a-time",
			wantErr: true,
		},
		{
			name:    "empty",
			value:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimeFlag(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseTimeFlag(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
				return
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseTimeFlag(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name      string
		since     string
		until     string
		wantSince time.Time
		wantUntil time.Time
		wantErr   bool
	}{
		{
			name:      "empty strings",
			since:     "",
			until:     "",
			wantSince: time.Time{},
			wantUntil: time.Time{},
			wantErr:   false,
		},
		{
			name:      "valid since only",
			since:     "2025-07-01T12:00:00Z",
			until:     "",
			wantSince: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
			wantUntil: time.Time{},
			wantErr:   false,
		},
		{
			name:      "valid until only",
			since:     "",
			until:     "2025-07-02T00:00:00Z",
			wantSince: time.Time{},
			wantUntil: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
			wantErr:   false,
		},
		{
			name:      "valid range",
			since:     "2025-07-01T12:00:00Z",
			until:     "2025-07-02T00:00:00Z",
			wantSince: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
			wantUntil: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
			wantErr:   false,
		},
		{
			name:      "log style range",
			since:     "Tue Jul 01 12:00:00 2025",
			until:     "Wed Jul 02 00:00:00 2025",
			wantSince: time.Date(2025, 7, 1, 12, 0, 0, 0, time.Local),
			wantUntil: time.Date(2025, 7, 2, 0, 0, 0, 0, time.Local),
			wantErr:   false,
		},
		{
			name:    "invalid since format",
			since:   "2025-07-01",
			until:   "",
			wantErr: true,
		},
		{
			name:    "invalid until format",
			since:   "",
			until:   "not-a-date",
			wantErr: true,
		},
		{
			name:    "since after until",
			since:   "2025-07-02T00:00:00Z",
			until:   "2025-07-01T00:00:00Z",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSince, gotUntil, err := parseTimeRange(tt.since, tt.until)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseTimeRange() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if !gotSince.Equal(tt.wantSince) {
					t.Errorf("parseTimeRange() since = %v, want %v", gotSince, tt.wantSince)
				}
				if !gotUntil.Equal(tt.wantUntil) {
					t.Errorf("parseTimeRange() until = %v, want %v", gotUntil, tt.wantUntil)
				}
			}
		})
	}
}

func TestRunParseInvalidFormat(t *testing.T) {
	// Save and restore original values
	origFormat := parseFormat
	origZones := parseZones
	defer func() {
		parseFormat = origFormat
		parseZones = origZones
	}()

	// Set up test conditions
	parseFormat = "csv"
	parseZones = nil

	err := runParse(parseCmd, nil)
	if err == nil {
		t.Error("expected error for invalid format, got nil")
		return
	}
	if !strings.Contains(err.Error(), "invalid format") {
		t.Errorf("expected 'invalid format' error, got: %v", err)
	}
}

func TestRunParseLastSinceConflict(t *testing.T) {
	// Save and restore original values
	origFormat := parseFormat
	origZones := parseZones
	origSince := parseSince
	origLast := parseLast
	defer func() {
		parseFormat = origFormat
		parseZones = origZones
		parseSince = origSince
		parseLast = origLast
	}()

	// Set up test conditions
	parseFormat = "jsonl"
	parseZones = nil
	parseSince = "2025-07-01T12:00:00Z"
	parseLast = time.Hour

	err := runParse(parseCmd, nil)
	if err == nil {
		t.Error("expected error for conflicting time flags, got nil")
		return
	}
	if !strings.Contains(err.Error(), "cannot be used together") {
		t.Errorf("expected conflict error, got: %v", err)
	}
}

func TestRunParseInvalidZone(t *testing.T) {
	// Save and restore original values
	origFormat := parseFormat
	origZones := parseZones
	defer func() {
		parseFormat = origFormat
		parseZones = origZones
	}()

	// Set up test conditions
	parseFormat = "jsonl"
	parseZones = []string{""}

	err := runParse(parseCmd, nil)
	if err == nil {
		t.Error("expected error for empty zone, got nil")
		return
	}
	if !strings.Contains(err.Error(), "empty zone name") {
		t.Errorf("expected 'empty zone name' error, got: %v", err)
	}
}

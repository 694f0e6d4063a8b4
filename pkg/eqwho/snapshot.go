package eqwho

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the bracketed timestamp EverQuest writes at the start
// of every log line, e.g. [Tue Jul 01 22:08:30 2025].
const TimestampLayout = "Mon Jan 02 15:04:05 2006"

// UnknownPlayerCount marks a snapshot whose end line carried no parsable
// count, which is what an empty /who reply looks like.
const UnknownPlayerCount = -1

// UnknownLocation is recorded when the end line carries no parsable zone name.
const UnknownLocation = "Unknown"

var (
	filenameDropRe     = regexp.MustCompile(`[^\w\s-]`)
	filenameCollapseRe = regexp.MustCompile(`[-\s]+`)
)

// Snapshot is one captured /who reply, from the "Players on EverQuest:"
// line through the "There are N players in Zone." line.
type Snapshot struct {
	// Timestamp is the raw bracketed token from the start line, or the wall
	// clock formatted in TimestampLayout when the line had none.
	Timestamp string `json:"timestamp"`

	// Time is Timestamp parsed in the local time zone. Zero when the token
	// does not parse; time filters let such snapshots through.
	Time time.Time `json:"-"`

	// Lines holds the trimmed block lines, start marker first, end marker
	// last. Blank lines are dropped during capture.
	Lines []string `json:"lines"`

	// Location is the zone name from the end line, or UnknownLocation.
	Location string `json:"location"`

	// PlayerCount is the count from the end line, or UnknownPlayerCount.
	PlayerCount int `json:"player_count"`
}

// Content returns the block as a single newline-joined string.
func (s Snapshot) Content() string {
	return strings.Join(s.Lines, "\n")
}

// key identifies a snapshot for deduplication. Two snapshots with the same
// timestamp and the same lines are the same capture.
func (s Snapshot) key() string {
	return s.Timestamp + "\x00" + s.Content()
}

// CountLabel returns the player count for display, "?" when unknown.
func (s Snapshot) CountLabel() string {
	if s.PlayerCount < 0 {
		return "?"
	}
	return strconv.Itoa(s.PlayerCount)
}

// Summary returns the one-line listing label, e.g.
// "[Tue Jul 01 22:08:30 2025] 24 players in Kael Drakkal".
func (s Snapshot) Summary() string {
	return fmt.Sprintf("[%s] %s players in %s", s.Timestamp, s.CountLabel(), s.Location)
}

// Export returns the block prefixed with its bracketed capture timestamp,
// the payload used for clipboard copies and saved files.
func (s Snapshot) Export() string {
	return fmt.Sprintf("[%s]\n%s", s.Timestamp, s.Content())
}

// ExportFilename returns a filesystem-safe file name for this snapshot,
// derived from the zone and the capture date, e.g. "who_East_Commons_Jul_01.txt".
func (s Snapshot) ExportFilename() string {
	zone := filenameDropRe.ReplaceAllString(s.Location, "")
	zone = strings.TrimSpace(zone)
	zone = filenameCollapseRe.ReplaceAllString(zone, "_")
	if zone == "" {
		zone = "unknown_location"
	}

	var date string
	if parts := strings.Fields(s.Timestamp); len(parts) >= 3 {
		date = parts[1] + "_" + parts[2]
	} else {
		date = time.Now().Format("Jan_02")
	}

	return fmt.Sprintf("who_%s_%s.txt", zone, date)
}

// ParseTimestamp parses an EverQuest log timestamp token. Tokens missing
// the trailing year get the current year appended before a second attempt.
// Returns the zero time when the token cannot be parsed at all.
func ParseTimestamp(token string) time.Time {
	token = strings.TrimSpace(token)
	if t, err := time.ParseInLocation(TimestampLayout, token, time.Local); err == nil {
		return t
	}
	withYear := fmt.Sprintf("%s %d", token, time.Now().Year())
	if t, err := time.ParseInLocation(TimestampLayout, withYear, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

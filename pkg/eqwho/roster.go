package eqwho

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Roster line grammar. A normal entry reads
//
//	[60 Phantasmist] Velissa (Dark Elf) <Covenant of Shadow>
//
// and an anonymous one
//
//	[ANONYMOUS] Velissa
//
// Race and guild trail the name and are not captured.
var (
	playerLineRe = regexp.MustCompile(`^\[(\d+)\s+([A-Za-z ]+)\]\s+([A-Za-z0-9_]+)`)
	anonLineRe   = regexp.MustCompile(`^\[ANONYMOUS\]\s+([A-Za-z0-9_]+)`)
)

// AnonymousLevel is recorded for anonymous roster entries, whose real level
// is hidden from /who.
const AnonymousLevel = 0

// RosterEntry is one player parsed from a snapshot body line.
type RosterEntry struct {
	Name string `json:"name"`

	// Level is AnonymousLevel when the entry was anonymous.
	Level int `json:"level"`

	// RawClass is the class title as printed, e.g. "Phantasmist". Empty for
	// anonymous entries.
	RawClass string `json:"raw_class,omitempty"`

	// Class is the canonical class name, "Unknown" for anonymous entries.
	Class string `json:"class"`
}

// Converter turns snapshot rosters into tab-separated records for DKP
// imports. The zero value uses the built-in class table.
type Converter struct {
	classes map[string]string
}

var defaultConverter Converter

// NewConverter returns a Converter that consults extra class mappings
// (lowercase token to canonical name) before the built-in table. A nil map
// is fine.
func NewConverter(extra map[string]string) *Converter {
	return &Converter{classes: extra}
}

func (c *Converter) canonicalClass(token string) string {
	if c.classes != nil {
		if canonical, ok := c.classes[strings.ToLower(token)]; ok {
			return canonical
		}
	}
	return CanonicalClassName(token)
}

// Entries parses the roster lines of a snapshot in source order. Marker
// lines, separators, and anything else that is not a player line are
// skipped.
func (c *Converter) Entries(s Snapshot) []RosterEntry {
	var entries []RosterEntry
	for _, line := range s.Lines {
		if entry, ok := c.parseLine(line); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// parseLine extracts one roster entry from a block line.
func (c *Converter) parseLine(line string) (RosterEntry, bool) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return RosterEntry{}, false
	case strings.Contains(line, startMarker):
		return RosterEntry{}, false
	case strings.HasPrefix(line, "---"):
		return RosterEntry{}, false
	case strings.HasPrefix(line, endMarkerHead):
		return RosterEntry{}, false
	}

	// Logs written with timestamps carry them on every line; drop the
	// leading "[Tue Jul 01 ...] " so the bracket grammar below sees the
	// roster entry itself.
	if strings.HasPrefix(line, "[") && strings.Contains(line, "] [") {
		if _, rest, found := strings.Cut(line, "] "); found {
			line = rest
		}
	}

	if m := playerLineRe.FindStringSubmatch(line); m != nil {
		level, err := strconv.Atoi(m[1])
		if err != nil {
			return RosterEntry{}, false
		}
		raw := strings.TrimSpace(m[2])
		return RosterEntry{
			Name:     m[3],
			Level:    level,
			RawClass: raw,
			Class:    c.canonicalClass(raw),
		}, true
	}

	if m := anonLineRe.FindStringSubmatch(line); m != nil {
		return RosterEntry{
			Name:  m[1],
			Level: AnonymousLevel,
			Class: c.canonicalClass("unknown"),
		}, true
	}

	return RosterEntry{}, false
}

// Convert renders the snapshot's roster in the DKP import format, one
// record per player:
//
//	0<TAB>PlayerName<TAB>Level<TAB>Class
//
// Records keep the order the players appeared in. Snapshots with no
// parsable roster lines produce an empty string.
func (c *Converter) Convert(s Snapshot) string {
	entries := c.Entries(s)
	records := make([]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, fmt.Sprintf("0\t%s\t%d\t%s", e.Name, e.Level, e.Class))
	}
	return strings.Join(records, "\n")
}

// Convert renders a snapshot's roster with the built-in class table only.
func Convert(s Snapshot) string {
	return defaultConverter.Convert(s)
}

package eqwho

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Markers bounding a /who block in the log. The end line must contain both
// end fragments; "There are" alone also appears in ordinary chat.
const (
	startMarker   = "Players on EverQuest:"
	endMarkerHead = "There are"
	endMarkerTail = "players in"
)

var (
	timestampRe = regexp.MustCompile(`^\[([^\]]+)\]`)
	locationRe  = regexp.MustCompile(`There are \d+ players in (.+)\.`)
	countRe     = regexp.MustCompile(`There are (\d+) players`)
)

// BlockParser assembles /who blocks from a stream of log lines.
//
// It is a two-state machine: idle until a line containing the start marker
// arrives, then capturing until a line containing both halves of the end
// marker completes the block. State survives across feeds, so a block split
// between two file reads still comes out whole. A start marker while
// capturing drops the unfinished block and begins a new one; an end marker
// while idle is ignored, as are blank lines.
//
// BlockParser is not safe for concurrent use.
type BlockParser struct {
	capturing bool
	lines     []string
	timestamp string
}

// NewBlockParser returns a parser in the idle state.
func NewBlockParser() *BlockParser {
	return &BlockParser{}
}

// ConsumeLine feeds one log line through the state machine. When the line
// completes a block, the finished snapshot is returned with ok true.
func (p *BlockParser) ConsumeLine(line string) (snap Snapshot, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Snapshot{}, false
	}

	if strings.Contains(line, startMarker) {
		// An unfinished block at this point means the previous /who was
		// interrupted; only the new one can still complete.
		p.capturing = true
		p.lines = []string{line}
		p.timestamp = extractTimestamp(line)
		return Snapshot{}, false
	}

	if !p.capturing {
		return Snapshot{}, false
	}

	p.lines = append(p.lines, line)

	if strings.Contains(line, endMarkerHead) && strings.Contains(line, endMarkerTail) {
		return p.finalize(line), true
	}
	return Snapshot{}, false
}

// Consume feeds a chunk of text and returns the snapshots completed by it,
// in completion order. Unfinished trailing blocks stay buffered.
func (p *BlockParser) Consume(text string) []Snapshot {
	var snaps []Snapshot
	for _, line := range strings.Split(text, "\n") {
		if snap, ok := p.ConsumeLine(line); ok {
			snaps = append(snaps, snap)
		}
	}
	return snaps
}

// Capturing reports whether the parser is mid-block.
func (p *BlockParser) Capturing() bool {
	return p.capturing
}

// finalize builds the snapshot from the captured lines. Location and player
// count come from the end line; an end line that matches neither pattern
// (an empty /who reply reads "There are no players...") yields the unknown
// sentinels.
func (p *BlockParser) finalize(endLine string) Snapshot {
	snap := Snapshot{
		Timestamp:   p.timestamp,
		Time:        ParseTimestamp(p.timestamp),
		Lines:       p.lines,
		Location:    UnknownLocation,
		PlayerCount: UnknownPlayerCount,
	}
	if m := locationRe.FindStringSubmatch(endLine); m != nil {
		snap.Location = m[1]
	}
	if m := countRe.FindStringSubmatch(endLine); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			snap.PlayerCount = n
		}
	}

	p.capturing = false
	p.lines = nil
	p.timestamp = ""
	return snap
}

// extractTimestamp pulls the bracketed token off the start line, or formats
// the current wall clock in the same layout when the line has none.
func extractTimestamp(line string) string {
	if m := timestampRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return time.Now().Format(TimestampLayout)
}

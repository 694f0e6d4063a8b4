// Package tailer reads newly appended lines from a growing EverQuest log file.
//
// Unlike generic follow-mode tailers, this one never watches the file and
// never reopens it. It keeps a byte offset of consumed data and reads the
// delta on each Poll, which matches how EverQuest writes logs: append-only,
// flushed line by line, from a single game client.
package tailer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrNotFound is returned when the log file does not exist at Open or
	// has disappeared by the time of a Poll.
	ErrNotFound = errors.New("log file not found")

	// ErrTruncated is returned when the file shrinks below the consumed
	// offset. The tailer is done at that point; callers that want to follow
	// the replacement file must Open a new one.
	ErrTruncated = errors.New("log file truncated")
)

// Tailer reads complete lines appended to a single file since the last Poll.
// It is not safe for concurrent use; one goroutine owns it.
type Tailer struct {
	path    string
	offset  int64
	partial []byte
}

// Open positions a new Tailer at the current end of the file. Content
// written before Open is never returned by Poll. Returns ErrNotFound if the
// file does not exist.
func Open(path string) (*Tailer, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &Tailer{path: path, offset: info.Size()}, nil
}

// Path returns the file this tailer reads.
func (t *Tailer) Path() string { return t.path }

// Offset returns the number of bytes consumed so far.
func (t *Tailer) Offset() int64 { return t.offset }

// Poll reads the bytes appended since the previous call and returns them as
// complete lines with line endings stripped. A trailing unterminated line is
// held back until a later poll completes it. Polling a file that has not
// grown returns (nil, nil).
//
// Poll returns ErrNotFound if the file disappeared and ErrTruncated if it
// shrank below the consumed offset. Both are terminal for this Tailer.
func (t *Tailer) Poll() ([]string, error) {
	info, err := os.Stat(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, t.path)
		}
		return nil, fmt.Errorf("stat %s: %w", t.path, err)
	}

	size := info.Size()
	switch {
	case size < t.offset:
		return nil, fmt.Errorf("%w: %s shrank from %d to %d bytes", ErrTruncated, t.path, t.offset, size)
	case size == t.offset:
		return nil, nil
	}

	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, t.path)
		}
		return nil, fmt.Errorf("open %s: %w", t.path, err)
	}
	defer f.Close()

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", t.path, err)
	}

	buf := make([]byte, size-t.offset)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read %s: %w", t.path, err)
	}
	t.offset += int64(n)

	return t.splitLines(buf[:n]), nil
}

// splitLines joins data onto the pending partial line and extracts complete
// lines. Bytes past the last newline stay buffered for the next poll.
func (t *Tailer) splitLines(data []byte) []string {
	buf := append(t.partial, data...)

	var lines []string
	start := 0
	for i, b := range buf {
		if b != '\n' {
			continue
		}
		line := buf[start:i]
		// EverQuest writes CRLF line endings.
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		lines = append(lines, sanitize(line))
		start = i + 1
	}
	t.partial = append([]byte(nil), buf[start:]...)
	return lines
}

// sanitize converts raw bytes to a string, substituting invalid UTF-8
// sequences instead of failing. Old clients occasionally write Latin-1
// bytes in player names.
func sanitize(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

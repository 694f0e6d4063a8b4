package eqwho

import (
	"errors"
	"fmt"

	"github.com/eqwho/eqwho-go/internal/logfinder"
	"github.com/eqwho/eqwho-go/internal/tailer"
)

// Sentinel errors. Match with errors.Is.
var (
	// ErrLogNotFound is returned by Start when the log file does not exist,
	// and reported through OnError when it disappears mid-session.
	ErrLogNotFound = tailer.ErrNotFound

	// ErrTruncated is reported through OnError when the log file shrinks
	// below the consumed offset, which is what rotation or deletion looks
	// like from the polling side. The session is over at that point; a new
	// Start begins a fresh one at the file's current end.
	ErrTruncated = tailer.ErrTruncated

	// ErrLogDirNotFound is returned by FindLogFile when no EverQuest log
	// directory can be located.
	ErrLogDirNotFound = logfinder.ErrLogDirNotFound

	// ErrNoLogFiles is returned by FindLogFile when the located directory
	// holds no eqlog files.
	ErrNoLogFiles = logfinder.ErrNoLogFiles

	// ErrAlreadyRunning is returned by Start while a session is active.
	ErrAlreadyRunning = errors.New("tracker already running")

	// ErrOutOfRange is returned for snapshot indexes outside the stored
	// range.
	ErrOutOfRange = errors.New("snapshot index out of range")
)

// Monitor operations recorded in MonitorError.
const (
	OpOpen = "open"
	OpPoll = "poll"
)

// MonitorError wraps a failure inside the monitor loop with the operation
// and file that produced it. Extract with errors.As; the underlying
// sentinel still matches through errors.Is.
type MonitorError struct {
	Op   string
	Path string
	Err  error
}

func (e *MonitorError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *MonitorError) Unwrap() error {
	return e.Err
}

package eqwho

import (
	"context"
	"sync"
	"time"

	"github.com/eqwho/eqwho-go/internal/tailer"
)

// Tracker monitors an EverQuest log file and collects /who snapshots.
//
// A Tracker owns one background goroutine per session. On a fixed cadence
// it reads the bytes appended to the log since the previous poll, feeds
// them through the block parser, and stores completed snapshots newest
// first with duplicates dropped. A session ends on Stop or on a terminal
// tailer error (ErrLogNotFound, ErrTruncated); the snapshot store survives
// across sessions until Clear.
//
// All methods are safe for concurrent use.
type Tracker struct {
	cfg       *trackerConfig
	store     *Store
	converter *Converter

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	doneCh  chan struct{}
	path    string
}

// NewTracker creates a tracker. No goroutine starts until Start.
func NewTracker(opts ...TrackerOption) *Tracker {
	cfg := applyTrackerOptions(opts)
	return &Tracker{
		cfg:       cfg,
		store:     NewStore(),
		converter: NewConverter(cfg.classes),
	}
}

// Start begins monitoring path. Monitoring picks up at the file's current
// end, so nothing already written is re-read. Returns ErrLogNotFound when
// the file does not exist and ErrAlreadyRunning while a session is active.
func (t *Tracker) Start(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return ErrAlreadyRunning
	}

	tl, err := tailer.Open(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.doneCh = make(chan struct{})
	t.running = true
	t.path = path

	go t.run(ctx, tl, t.doneCh)
	return nil
}

// Stop ends the current session. Safe to call repeatedly and when nothing
// is running. Stop blocks until the monitor goroutine has exited, so no
// callback fires after it returns.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	done := t.doneCh
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Running reports whether a monitoring session is active. It turns false
// when the session dies on its own, after the OnError callback has run.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Path returns the file of the current or most recent session.
func (t *Tracker) Path() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// Snapshots returns all captured snapshots, newest first.
func (t *Tracker) Snapshots() []Snapshot {
	return t.store.All()
}

// Snapshot returns the stored snapshot at the given newest-first index.
// Returns ErrOutOfRange for indexes outside the stored range.
func (t *Tracker) Snapshot(index int) (Snapshot, error) {
	return t.store.Get(index)
}

// Convert renders the roster of the snapshot at the given newest-first
// index in the DKP import format.
func (t *Tracker) Convert(index int) (string, error) {
	snap, err := t.store.Get(index)
	if err != nil {
		return "", err
	}
	return t.converter.Convert(snap), nil
}

// Converter returns the converter this tracker renders rosters with,
// including any WithClassMap additions.
func (t *Tracker) Converter() *Converter {
	return t.converter
}

// Len returns the number of stored snapshots.
func (t *Tracker) Len() int {
	return t.store.Len()
}

// Clear drops all stored snapshots.
func (t *Tracker) Clear() {
	t.store.Clear()
}

// run is the monitor loop. It exits on context cancellation or on the
// first terminal poll error, always flipping running off before done
// closes so Stop and Start observe a settled state.
func (t *Tracker) run(ctx context.Context, tl *tailer.Tailer, done chan struct{}) {
	defer close(done)
	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	parser := NewBlockParser()
	ticker := time.NewTicker(t.cfg.pollInterval)
	defer ticker.Stop()

	t.logDebug("monitor started", "path", tl.Path(), "offset", tl.Offset())

	for {
		select {
		case <-ctx.Done():
			t.logDebug("monitor stopped", "path", tl.Path())
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			if err := t.pollOnce(parser, tl); err != nil {
				t.logDebug("monitor failed", "path", tl.Path(), "error", err)
				if t.cfg.onError != nil {
					t.cfg.onError(err)
				}
				return
			}
		}
	}
}

// pollOnce drains newly appended lines into the parser and stores whatever
// blocks completed.
func (t *Tracker) pollOnce(parser *BlockParser, tl *tailer.Tailer) error {
	lines, err := tl.Poll()
	if err != nil {
		return &MonitorError{Op: OpPoll, Path: tl.Path(), Err: err}
	}
	if len(lines) == 0 {
		return nil
	}
	t.logDebug("poll", "lines", len(lines), "offset", tl.Offset())

	for _, line := range lines {
		snap, ok := parser.ConsumeLine(line)
		if !ok {
			continue
		}
		if !t.cfg.filter.Allows(snap.Location) {
			t.logDebug("snapshot filtered", "location", snap.Location)
			continue
		}
		if !t.store.Add(snap) {
			t.logDebug("duplicate snapshot dropped", "timestamp", snap.Timestamp)
			continue
		}
		t.logDebug("snapshot captured", "location", snap.Location, "players", snap.CountLabel())
		if t.cfg.onSnapshot != nil {
			t.cfg.onSnapshot(snap)
		}
	}
	return nil
}

func (t *Tracker) logDebug(msg string, args ...any) {
	if t.cfg.logger != nil {
		t.cfg.logger.Debug(msg, args...)
	}
}

package eqwho

import (
	"log/slog"
	"time"
)

// DefaultPollInterval is how often the log file is checked for growth when
// WithPollInterval is not given. One second keeps captures feeling
// immediate without measurable load.
const DefaultPollInterval = time.Second

// TrackerOption configures a Tracker.
type TrackerOption func(*trackerConfig)

type trackerConfig struct {
	pollInterval time.Duration
	onSnapshot   func(Snapshot)
	onError      func(error)
	classes      map[string]string
	filter       *zoneFilter
	logger       *slog.Logger
}

func defaultTrackerConfig() *trackerConfig {
	return &trackerConfig{
		pollInterval: DefaultPollInterval,
	}
}

func applyTrackerOptions(opts []TrackerOption) *trackerConfig {
	cfg := defaultTrackerConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithPollInterval sets the poll cadence. Non-positive values fall back to
// DefaultPollInterval.
func WithPollInterval(d time.Duration) TrackerOption {
	return func(cfg *trackerConfig) {
		if d > 0 {
			cfg.pollInterval = d
		}
	}
}

// WithOnSnapshot registers a callback invoked for every newly stored
// snapshot. It runs on the monitor goroutine, so it must return quickly;
// hand off to a channel for anything slow.
func WithOnSnapshot(fn func(Snapshot)) TrackerOption {
	return func(cfg *trackerConfig) {
		cfg.onSnapshot = fn
	}
}

// WithOnError registers a callback invoked when a session dies on its own
// (ErrLogNotFound, ErrTruncated). At most one call per session, on the
// monitor goroutine. Without it, session-ending errors are only visible
// through Running.
func WithOnError(fn func(error)) TrackerOption {
	return func(cfg *trackerConfig) {
		cfg.onError = fn
	}
}

// WithClassMap adds class-name mappings (lowercase token to canonical
// name) consulted before the built-in table when converting rosters.
func WithClassMap(m map[string]string) TrackerOption {
	return func(cfg *trackerConfig) {
		cfg.classes = m
	}
}

// WithZones stores only snapshots captured in the named zones,
// case-insensitively. Blocks from other zones are still parsed but
// dropped.
func WithZones(zones ...string) TrackerOption {
	return func(cfg *trackerConfig) {
		cfg.filter = newZoneFilter(zones)
	}
}

// WithLogger sets a structured logger for poll-level debug output. Nil
// (the default) disables logging.
func WithLogger(logger *slog.Logger) TrackerOption {
	return func(cfg *trackerConfig) {
		cfg.logger = logger
	}
}

// ParseOption configures the one-shot parsing functions.
type ParseOption func(*parseConfig)

type parseConfig struct {
	since  time.Time
	until  time.Time
	filter *zoneFilter
}

func applyParseOptions(opts []ParseOption) *parseConfig {
	cfg := &parseConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// allows applies the zone and time window filters to a finished snapshot.
// Snapshots whose timestamp never parsed pass every time filter.
func (c *parseConfig) allows(s Snapshot) bool {
	if !c.filter.Allows(s.Location) {
		return false
	}
	if s.Time.IsZero() {
		return true
	}
	if !c.since.IsZero() && s.Time.Before(c.since) {
		return false
	}
	if !c.until.IsZero() && !s.Time.Before(c.until) {
		return false
	}
	return true
}

// WithSince keeps only snapshots captured at or after t (inclusive).
func WithSince(t time.Time) ParseOption {
	return func(cfg *parseConfig) {
		cfg.since = t
	}
}

// WithUntil keeps only snapshots captured before t (exclusive).
func WithUntil(t time.Time) ParseOption {
	return func(cfg *parseConfig) {
		cfg.until = t
	}
}

// WithTimeRange combines WithSince and WithUntil.
func WithTimeRange(since, until time.Time) ParseOption {
	return func(cfg *parseConfig) {
		cfg.since = since
		cfg.until = until
	}
}

// WithParseZones keeps only snapshots captured in the named zones,
// case-insensitively.
func WithParseZones(zones ...string) ParseOption {
	return func(cfg *parseConfig) {
		cfg.filter = newZoneFilter(zones)
	}
}

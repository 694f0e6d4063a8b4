package eqwho

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

// ParseReader scans r line by line and yields every /who snapshot completed
// in it, in file order. Iteration stops early when the context is
// cancelled, yielding the context error last. Invalid UTF-8 is substituted
// rather than treated as an error.
//
// The sequence is single use.
func ParseReader(ctx context.Context, r io.Reader, opts ...ParseOption) iter.Seq2[Snapshot, error] {
	cfg := applyParseOptions(opts)
	return func(yield func(Snapshot, error) bool) {
		parser := NewBlockParser()
		scanner := bufio.NewScanner(r)
		// Raid-sized blocks with per-line timestamps still fit well inside
		// these bounds.
		scanner.Buffer(make([]byte, 0, 64*1024), 512*1024)

		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				yield(Snapshot{}, err)
				return
			}
			line := strings.ToValidUTF8(scanner.Text(), "�")
			snap, ok := parser.ConsumeLine(line)
			if !ok {
				continue
			}
			if !cfg.allows(snap) {
				continue
			}
			if !yield(snap, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Snapshot{}, fmt.Errorf("scanning log: %w", err))
		}
	}
}

// ParseFile opens path lazily on first iteration and yields its /who
// snapshots like ParseReader. A missing file yields ErrLogNotFound.
//
// The sequence is single use.
func ParseFile(ctx context.Context, path string, opts ...ParseOption) iter.Seq2[Snapshot, error] {
	if path == "" {
		return func(yield func(Snapshot, error) bool) {
			yield(Snapshot{}, errors.New("eqwho: path required"))
		}
	}
	return func(yield func(Snapshot, error) bool) {
		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				yield(Snapshot{}, fmt.Errorf("%w: %s", ErrLogNotFound, path))
				return
			}
			yield(Snapshot{}, fmt.Errorf("opening log: %w", err))
			return
		}
		defer file.Close()

		for snap, err := range ParseReader(ctx, file, opts...) {
			if !yield(snap, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}

// ParseFileAll collects every snapshot in the file. It stops at the first
// error and returns whatever was collected before it.
func ParseFileAll(ctx context.Context, path string, opts ...ParseOption) ([]Snapshot, error) {
	snaps := make([]Snapshot, 0, 16)
	for snap, err := range ParseFile(ctx, path, opts...) {
		if err != nil {
			return snaps, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

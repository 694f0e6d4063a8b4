package eqwho_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eqwho/eqwho-go/pkg/eqwho"
)

const twoBlockLog = `[Tue Jul 01 21:00:00 2025] You have entered East Commons.
[Tue Jul 01 21:30:00 2025] Players on EverQuest:
[Tue Jul 01 21:30:00 2025] ---------------------------
[Tue Jul 01 21:30:00 2025] [60 Warlord] Bash (Troll) <Hammerfall>
[Tue Jul 01 21:30:00 2025] There are 1 players in East Commons.
[Tue Jul 01 21:45:00 2025] Tells the guild, 'camp check?'
[Tue Jul 01 22:30:00 2025] Players on EverQuest:
[Tue Jul 01 22:30:00 2025] ---------------------------
[Tue Jul 01 22:30:00 2025] [60 Phantasmist] Velissa (Dark Elf) <Covenant of Shadow>
[Tue Jul 01 22:30:00 2025] [58 Templar] Aldaris (Human) <Covenant of Shadow>
[Tue Jul 01 22:30:00 2025] There are 2 players in Skyshrine.
`

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eqlog_Velissa_project1999.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseReader(t *testing.T) {
	var snaps []eqwho.Snapshot
	for snap, err := range eqwho.ParseReader(context.Background(), strings.NewReader(twoBlockLog)) {
		if err != nil {
			t.Fatalf("ParseReader() error = %v", err)
		}
		snaps = append(snaps, snap)
	}

	if len(snaps) != 2 {
		t.Fatalf("ParseReader() yielded %d snapshots, want 2", len(snaps))
	}
	if snaps[0].Location != "East Commons" || snaps[1].Location != "Skyshrine" {
		t.Errorf("locations = %q, %q; want file order", snaps[0].Location, snaps[1].Location)
	}
	if snaps[1].PlayerCount != 2 {
		t.Errorf("second PlayerCount = %d, want 2", snaps[1].PlayerCount)
	}
}

func TestParseReaderEarlyBreak(t *testing.T) {
	count := 0
	for _, err := range eqwho.ParseReader(context.Background(), strings.NewReader(twoBlockLog)) {
		if err != nil {
			t.Fatalf("ParseReader() error = %v", err)
		}
		count++
		break
	}
	if count != 1 {
		t.Errorf("iterated %d times after break, want 1", count)
	}
}

func TestParseFile(t *testing.T) {
	path := writeLog(t, twoBlockLog)

	var locations []string
	for snap, err := range eqwho.ParseFile(context.Background(), path) {
		if err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		locations = append(locations, snap.Location)
	}

	want := []string{"East Commons", "Skyshrine"}
	if len(locations) != len(want) {
		t.Fatalf("ParseFile() yielded %d snapshots, want %d", len(locations), len(want))
	}
	for i := range want {
		if locations[i] != want[i] {
			t.Errorf("locations[%d] = %q, want %q", i, locations[i], want[i])
		}
	}
}

func TestParseFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eqlog_Nobody_test.txt")

	var got error
	for _, err := range eqwho.ParseFile(context.Background(), path) {
		got = err
	}
	if !errors.Is(got, eqwho.ErrLogNotFound) {
		t.Errorf("ParseFile() error = %v, want ErrLogNotFound", got)
	}
}

func TestParseFileEmptyPath(t *testing.T) {
	var got error
	for _, err := range eqwho.ParseFile(context.Background(), "") {
		got = err
	}
	if got == nil {
		t.Error("ParseFile(\"\") yielded no error, want one")
	}
}

func TestParseFileAll(t *testing.T) {
	path := writeLog(t, twoBlockLog)

	snaps, err := eqwho.ParseFileAll(context.Background(), path)
	if err != nil {
		t.Fatalf("ParseFileAll() error = %v", err)
	}
	if len(snaps) != 2 {
		t.Errorf("ParseFileAll() = %d snapshots, want 2", len(snaps))
	}
}

func TestParseFileSince(t *testing.T) {
	path := writeLog(t, twoBlockLog)
	since := time.Date(2025, time.July, 1, 22, 0, 0, 0, time.Local)

	snaps, err := eqwho.ParseFileAll(context.Background(), path, eqwho.WithSince(since))
	if err != nil {
		t.Fatalf("ParseFileAll() error = %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("ParseFileAll() = %d snapshots, want 1 after since filter", len(snaps))
	}
	if snaps[0].Location != "Skyshrine" {
		t.Errorf("kept snapshot from %q, want the later one", snaps[0].Location)
	}
}

func TestParseFileUntil(t *testing.T) {
	path := writeLog(t, twoBlockLog)
	until := time.Date(2025, time.July, 1, 22, 0, 0, 0, time.Local)

	snaps, err := eqwho.ParseFileAll(context.Background(), path, eqwho.WithUntil(until))
	if err != nil {
		t.Fatalf("ParseFileAll() error = %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("ParseFileAll() = %d snapshots, want 1 after until filter", len(snaps))
	}
	if snaps[0].Location != "East Commons" {
		t.Errorf("kept snapshot from %q, want the earlier one", snaps[0].Location)
	}
}

func TestParseFileTimeRangeBoundaries(t *testing.T) {
	path := writeLog(t, twoBlockLog)

	// since is inclusive, until is exclusive.
	first := time.Date(2025, time.July, 1, 21, 30, 0, 0, time.Local)
	second := time.Date(2025, time.July, 1, 22, 30, 0, 0, time.Local)

	snaps, err := eqwho.ParseFileAll(context.Background(), path, eqwho.WithTimeRange(first, second))
	if err != nil {
		t.Fatalf("ParseFileAll() error = %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("ParseFileAll() = %d snapshots, want 1", len(snaps))
	}
	if snaps[0].Location != "East Commons" {
		t.Errorf("kept snapshot from %q, want boundary-inclusive first block", snaps[0].Location)
	}
}

func TestParseFileZones(t *testing.T) {
	path := writeLog(t, twoBlockLog)

	snaps, err := eqwho.ParseFileAll(context.Background(), path, eqwho.WithParseZones("skyshrine"))
	if err != nil {
		t.Fatalf("ParseFileAll() error = %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("ParseFileAll() = %d snapshots, want 1 after zone filter", len(snaps))
	}
	if snaps[0].Location != "Skyshrine" {
		t.Errorf("kept snapshot from %q, want Skyshrine", snaps[0].Location)
	}
}

func TestParseFileCancelledContext(t *testing.T) {
	path := writeLog(t, twoBlockLog)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eqwho.ParseFileAll(ctx, path)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ParseFileAll() error = %v, want context.Canceled", err)
	}
}

// Package eqwho captures /who command output from EverQuest log files.
//
// This package allows you to:
//   - Monitor a growing log file and collect /who snapshots as they appear
//   - Parse existing log files for the /who blocks they already contain
//   - Convert snapshot rosters into the tab-separated format DKP sites import
//
// # Basic Usage
//
// To monitor a log in real-time:
//
//	tracker := eqwho.NewTracker(
//	    eqwho.WithOnSnapshot(func(s eqwho.Snapshot) {
//	        fmt.Println(s.Summary())
//	    }),
//	)
//	if err := tracker.Start(path); err != nil {
//	    log.Fatal(err)
//	}
//	defer tracker.Stop()
//
// Captured snapshots stay available newest first:
//
//	for _, s := range tracker.Snapshots() {
//	    fmt.Println(s.Summary())
//	}
//	roster, err := tracker.Convert(0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(roster)
//
// To sweep a finished log instead:
//
//	for snap, err := range eqwho.ParseFile(ctx, path) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(snap.Summary())
//	}
//
// # Platform Support
//
// EverQuest runs on Windows and log locations are auto-detected from the
// standard install paths, but any readable eqlog file works, including
// ones reached over network shares or Wine prefixes.
//
// # Disclaimer
//
// This is an unofficial tool and is not affiliated with Daybreak Game
// Company.
package eqwho

// Package logfinder locates EverQuest log directories and files.
//
// EverQuest writes one log per character to <install>/Logs/ once the /log
// command is enabled, named eqlog_<Character>_<server>.txt.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// EnvLogDir is the environment variable name for specifying the log directory.
const EnvLogDir = "EQWHO_LOGDIR"

// Sentinel errors.
var (
	ErrLogDirNotFound = errors.New("log directory not found")
	ErrNoLogFiles     = errors.New("no log files found")
)

// DefaultLogDirs returns candidate EverQuest log directories in priority
// order: the Daybreak launcher default, the classic Sony install paths, and
// a Wine prefix for people running the client on Linux.
func DefaultLogDirs() []string {
	var dirs []string

	if public := os.Getenv("PUBLIC"); public != "" {
		dirs = append(dirs, filepath.Join(public, "Daybreak Game Company", "Installed Games", "EverQuest", "Logs"))
	}
	for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
		if root := os.Getenv(env); root != "" {
			dirs = append(dirs, filepath.Join(root, "Sony", "EverQuest", "Logs"))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".wine", "drive_c", "Program Files (x86)", "Sony", "EverQuest", "Logs"))
	}

	return dirs
}

// FindLogFile resolves which log file to read.
//
// Priority:
//  1. pathOrDir, when non-empty: a directory is searched for its newest
//     eqlog file, anything else is returned as-is so the caller's open
//     reports missing files with its own error
//  2. EQWHO_LOGDIR environment variable
//  3. Auto-detect from DefaultLogDirs()
//
// Returns ErrLogDirNotFound if no valid directory is found and
// ErrNoLogFiles if a directory holds no eqlog files.
func FindLogFile(pathOrDir string) (string, error) {
	if pathOrDir != "" {
		info, err := os.Stat(pathOrDir)
		if err == nil && info.IsDir() {
			return FindLatestLogFile(pathOrDir)
		}
		return pathOrDir, nil
	}

	if envDir := os.Getenv(EnvLogDir); envDir != "" {
		if resolved := resolveAndValidateLogDir(envDir); resolved != "" {
			return FindLatestLogFile(resolved)
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid directory", ErrLogDirNotFound, EnvLogDir)
	}

	for _, dir := range DefaultLogDirs() {
		if resolved := resolveAndValidateLogDir(dir); resolved != "" {
			return FindLatestLogFile(resolved)
		}
	}

	return "", ErrLogDirNotFound
}

// FindLatestLogFile returns the path to the most recently modified eqlog
// file in the given directory. EverQuest keeps one file per character, so
// newest-by-modtime picks the character currently playing.
//
// Returns ErrNoLogFiles if no log files are found.
func FindLatestLogFile(dir string) (string, error) {
	pattern := filepath.Join(dir, "eqlog_*.txt")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("globbing log files: %w", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoLogFiles, dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(matches, func(i, j int) bool {
		infoI, errI := os.Stat(matches[i])
		infoJ, errJ := os.Stat(matches[j])
		if errI != nil || errJ != nil {
			return false
		}
		return infoI.ModTime().After(infoJ.ModTime())
	})

	return matches[0], nil
}

// resolveAndValidateLogDir resolves symlinks and validates the directory.
// Returns the resolved path if it exists and holds at least one eqlog file,
// empty string otherwise.
func resolveAndValidateLogDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}

	// Resolve symlinks (works with Windows Junctions in Go 1.20+)
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}

	matches, err := filepath.Glob(filepath.Join(resolved, "eqlog_*.txt"))
	if err != nil || len(matches) == 0 {
		return ""
	}

	return resolved
}

package eqwho

import "github.com/eqwho/eqwho-go/internal/logfinder"

// EnvLogDir is the environment variable consulted by FindLogFile when no
// path is given.
const EnvLogDir = logfinder.EnvLogDir

// FindLogFile resolves which EverQuest log file to read. An explicit file
// path is returned as-is, a directory is searched for its newest eqlog
// file, and an empty string falls back to the EQWHO_LOGDIR environment
// variable and then to the known EverQuest install locations.
//
// Returns ErrLogDirNotFound or ErrNoLogFiles when nothing suitable exists.
func FindLogFile(pathOrDir string) (string, error) {
	return logfinder.FindLogFile(pathOrDir)
}

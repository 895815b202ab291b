package anchor

import "log/slog"

// FinderOptions configures a Finder.
type FinderOptions struct {
	// Languages is the ordered set of languages the Finder dispatches to.
	// If nil, DefaultLanguages() is used.
	Languages []*Language

	// Source reads candidate files.
	// If nil, files are read from the local filesystem.
	Source Source

	// Logger receives debug output about dropped templates and matches.
	// If nil, logging is discarded.
	Logger *slog.Logger

	// QueryCacheSize bounds the number of compiled queries kept.
	// If 0, defaults to 256.
	QueryCacheSize int
}

// SearchOptions configures Finder.Search.
type SearchOptions struct {
	// Target is the entity to look up (required).
	Target Target

	// Path is the root directory to scan for files.
	// If empty, current directory is used.
	Path string

	// Include keeps only files whose slash-separated path relative to Path
	// matches one of these globs. If empty, every file is a candidate.
	Include []string

	// Exclude drops files whose relative path matches one of these globs.
	Exclude []string

	// NoGitignore disables .gitignore handling at the root of Path.
	NoGitignore bool

	// Jobs is the number of parallel workers.
	// If 0, defaults to number of CPUs.
	Jobs int

	// MaxBytes skips files larger than this size.
	// If 0, no size limit is enforced.
	MaxBytes int64

	// Progress, if set, is told how many files were selected and when each
	// one is done.
	Progress ProgressReporter
}

// ProgressReporter receives directory search progress. OnFileSearched is
// called from worker goroutines.
type ProgressReporter interface {
	OnSearchStart(totalFiles int)
	OnFileSearched(file string)
}

package anchor

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
)

// defaultIgnoreDirs returns the default list of directories to ignore.
func defaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		".git":          {},
		".hg":           {},
		".svn":          {},
		".jj":           {},
		"node_modules":  {},
		"vendor":        {},
		"dist":          {},
		"build":         {},
		"target":        {},
		".venv":         {},
		"__pycache__":   {},
		".mypy_cache":   {},
		".pytest_cache": {},
		".next":         {},
		".cache":        {},
		".turbo":        {},
		"coverage":      {},
	}
}

// scannerConfig holds scanner configuration.
type scannerConfig struct {
	root       string
	languages  []*Language
	ignoreDirs map[string]struct{}
	include    []string
	exclude    []string
	gitignore  bool
	maxBytes   int64
}

// scanner discovers files for processing.
type scanner struct {
	cfg       scannerConfig
	include   []glob.Glob
	exclude   []glob.Glob
	gitignore *ignore.GitIgnore
}

// newScanner creates a new scanner with the given configuration.
func newScanner(cfg scannerConfig) (*scanner, error) {
	if cfg.ignoreDirs == nil {
		cfg.ignoreDirs = defaultIgnoreDirs()
	}
	s := &scanner{cfg: cfg}

	var err error
	if s.include, err = compileGlobs(cfg.include); err != nil {
		return nil, err
	}
	if s.exclude, err = compileGlobs(cfg.exclude); err != nil {
		return nil, err
	}
	return s, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compile glob %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// collect finds all matching files and returns them as FileJobs, in
// lexical path order.
func (s *scanner) collect() ([]FileJob, error) {
	absRoot, err := filepath.Abs(s.cfg.root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	if s.cfg.gitignore {
		// A missing .gitignore just means nothing is ignored.
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(absRoot, ".gitignore")); err == nil {
			s.gitignore = gi
		}
	}

	var jobs []FileJob
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if s.shouldIgnoreDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.isSupportedFile(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if !s.isSelected(rel) {
			return nil
		}

		if s.cfg.maxBytes > 0 {
			info, err := d.Info()
			if err != nil {
				// Skip files we can't stat
				return nil
			}
			if info.Size() > s.cfg.maxBytes {
				return nil
			}
		}

		jobs = append(jobs, FileJob{
			AbsPath:     path,
			DisplayPath: rel,
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	return jobs, nil
}

func (s *scanner) shouldIgnoreDir(name string) bool {
	_, ok := s.cfg.ignoreDirs[name]
	return ok
}

func (s *scanner) isSupportedFile(name string) bool {
	for _, l := range s.cfg.languages {
		if l.Accepts(name) {
			return true
		}
	}
	return false
}

// isSelected applies .gitignore and include/exclude globs to a
// slash-separated relative path.
func (s *scanner) isSelected(rel string) bool {
	if s.gitignore != nil && s.gitignore.MatchesPath(rel) {
		return false
	}
	for _, g := range s.exclude {
		if g.Match(rel) {
			return false
		}
	}
	if len(s.include) == 0 {
		return true
	}
	for _, g := range s.include {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

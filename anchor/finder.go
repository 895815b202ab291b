package anchor

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
)

const defaultQueryCacheSize = 256

// Source provides file contents for lookups. Implementations must be safe
// for concurrent reads.
type Source interface {
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool
}

// osSource reads from the local filesystem.
type osSource struct{}

func (osSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osSource) Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// Finder looks targets up in source files, dispatching each file to the
// first language that accepts its extension. A Finder is safe for
// concurrent use.
type Finder struct {
	languages []*Language
	source    Source
	logger    *slog.Logger
	queries   *queryCache
}

// NewFinder creates a Finder.
func NewFinder(opts FinderOptions) (*Finder, error) {
	if opts.Languages == nil {
		opts.Languages = DefaultLanguages()
	}
	if opts.Source == nil {
		opts.Source = osSource{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.QueryCacheSize == 0 {
		opts.QueryCacheSize = defaultQueryCacheSize
	}

	queries, err := newQueryCache(opts.QueryCacheSize)
	if err != nil {
		return nil, err
	}

	return &Finder{
		languages: opts.Languages,
		source:    opts.Source,
		logger:    opts.Logger,
		queries:   queries,
	}, nil
}

// Languages returns the languages in dispatch order.
func (f *Finder) Languages() []*Language {
	return f.languages
}

// LanguageFor returns the first language accepting path, or nil.
func (f *Finder) LanguageFor(path string) *Language {
	for _, l := range f.languages {
		if l.Accepts(path) {
			return l
		}
	}
	return nil
}

// Fetch looks target up in the file at path. A path the source does not
// have is a *FileNotFoundError; a file no language accepts yields no
// matches and no error.
func (f *Finder) Fetch(target Target, path string) ([]Match, error) {
	if !f.source.Exists(path) {
		return nil, &FileNotFoundError{Path: path}
	}
	lang := f.LanguageFor(path)
	if lang == nil {
		f.logger.Debug("no language accepts file", slog.String("file", path))
		return []Match{}, nil
	}
	return f.FindIn(lang, target, path)
}

// FindIn parses the file at path once and runs every template lang has for
// the target's kind against it. Matches are returned in template order, then
// in tree order, without deduplication.
func (f *Finder) FindIn(lang *Language, target Target, path string) ([]Match, error) {
	kind, err := target.Kind()
	if err != nil {
		return nil, err
	}

	templates := lang.Templates(kind)
	if len(templates) == 0 {
		return []Match{}, nil
	}

	queries := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		q, err := Parameterize(tmpl, target)
		if err != nil {
			f.logger.Debug("dropping template",
				slog.String("language", lang.Name()),
				slog.String("kind", kind.String()),
				slog.String("template", compact(tmpl)),
				slog.String("error", err.Error()),
			)
			continue
		}
		queries = append(queries, q)
	}

	source, err := f.source.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}

	p := newParser(lang)
	defer p.close()
	tree, err := p.parse(path, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	matches := []Match{}
	for _, queryStr := range queries {
		q, err := f.queries.get(queryStr, lang)
		if err != nil {
			f.logger.Warn("skipping query",
				slog.String("language", lang.Name()),
				slog.String("query", compact(queryStr)),
				slog.String("error", err.Error()),
			)
			continue
		}
		for _, node := range q.run(tree, source) {
			matches = append(matches, Match{
				Definition:    node.Content(source),
				Documentation: documentation(node, source),
				Range:         nodeRange(node),
			})
		}
	}

	f.logger.Debug("lookup finished",
		slog.String("file", path),
		slog.String("target", target.String()),
		slog.Int("matches", len(matches)),
	)
	return matches, nil
}

package anchor

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

//go:embed queries
var queryFS embed.FS

// kinds lists every request kind in catalog order.
var kinds = []RequestKind{Functions, Methods, Types}

// Language describes one supported source language: the file extension that
// selects it, its grammar, and its query templates per request kind.
// A Language is immutable once built and safe to share across goroutines.
type Language struct {
	name      string
	extension string
	grammar   *sitter.Language
	templates map[RequestKind][]string
}

// Name returns the language identifier (e.g., "go", "python").
func (l *Language) Name() string { return l.name }

// Extension returns the file extension for this language, with the leading dot.
func (l *Language) Extension() string { return l.extension }

// TreeSitterLang returns the tree-sitter language grammar.
func (l *Language) TreeSitterLang() *sitter.Language { return l.grammar }

// Templates returns the query templates for a kind, in attempt order.
// The returned slice must not be modified.
func (l *Language) Templates(kind RequestKind) []string {
	return l.templates[kind]
}

// Kinds returns the request kinds this language has templates for.
func (l *Language) Kinds() []RequestKind {
	var out []RequestKind
	for _, k := range kinds {
		if len(l.templates[k]) > 0 {
			out = append(out, k)
		}
	}
	return out
}

// Accepts reports whether path has exactly this language's extension.
// The comparison is case-sensitive.
func (l *Language) Accepts(path string) bool {
	ext := filepath.Ext(path)
	return ext != "" && ext == l.extension
}

// newLanguage builds a descriptor from the templates embedded under
// queries/<name>/<kind>/. It panics on a malformed catalog, which can only
// happen if the embedded files are wrong.
func newLanguage(name, extension string, grammar *sitter.Language) *Language {
	templates, err := loadTemplates(queryFS, path.Join("queries", name))
	if err != nil {
		panic(fmt.Sprintf("anchor: %s catalog: %v", name, err))
	}
	return &Language{
		name:      name,
		extension: extension,
		grammar:   grammar,
		templates: templates,
	}
}

// loadTemplates reads <dir>/<kind>/*.scm, ordered by file name.
func loadTemplates(fsys fs.FS, dir string) (map[RequestKind][]string, error) {
	templates := make(map[RequestKind][]string)
	for _, kind := range kinds {
		kindDir := path.Join(dir, kind.String())
		entries, err := fs.ReadDir(fsys, kindDir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || path.Ext(e.Name()) != ".scm" {
				continue
			}
			data, err := fs.ReadFile(fsys, path.Join(kindDir, e.Name()))
			if err != nil {
				return nil, err
			}
			tmpl := string(data)
			if err := checkTemplate(kind, tmpl); err != nil {
				return nil, fmt.Errorf("%s/%s: %w", kind, e.Name(), err)
			}
			templates[kind] = append(templates[kind], tmpl)
		}
	}
	return templates, nil
}

// checkTemplate rejects templates bucketed under a kind whose targets cannot
// fill their placeholders.
func checkTemplate(kind RequestKind, tmpl string) error {
	for _, v := range templateVars(tmpl) {
		switch {
		case v == functionVar && kind != Types:
		case v == receiverVar && kind != Functions:
		default:
			return fmt.Errorf("placeholder {%s} cannot be filled for %s", v, kind)
		}
	}
	return nil
}

var defaultLanguages = sync.OnceValue(func() []*Language {
	return []*Language{Go(), Python(), Java()}
})

// DefaultLanguages returns the built-in catalog in registration order.
// The same descriptors are returned on every call.
func DefaultLanguages() []*Language {
	return defaultLanguages()
}

// Get returns a built-in language by name, or nil if not found.
func Get(name string) *Language {
	for _, l := range DefaultLanguages() {
		if l.name == name {
			return l
		}
	}
	return nil
}

// List returns the built-in language names in registration order.
func List() []string {
	langs := DefaultLanguages()
	names := make([]string, 0, len(langs))
	for _, l := range langs {
		names = append(names, l.name)
	}
	return names
}

// LanguagesByName resolves names against the built-in catalog, keeping the
// order given. An empty list selects every built-in language.
func LanguagesByName(names []string) ([]*Language, error) {
	if len(names) == 0 {
		return DefaultLanguages(), nil
	}
	out := make([]*Language, 0, len(names))
	for _, n := range names {
		l := Get(n)
		if l == nil {
			return nil, errors.New(n + " language not registered")
		}
		out = append(out, l)
	}
	return out, nil
}

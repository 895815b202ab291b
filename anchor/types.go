// Package anchor resolves references like "Type.Method()" to their source
// definitions and doc comments using tree-sitter queries.
package anchor

// Position represents a location in a source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range represents a span in a source file.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Match is a single definition found for a target.
// Definition and Documentation are verbatim substrings of the file.
type Match struct {
	Definition    string `json:"definition"`
	Documentation string `json:"documentation"`
	Range         Range  `json:"range"`
}

// FileMatches groups the matches found in one file during a directory search.
type FileMatches struct {
	File     string  `json:"file"`
	Language string  `json:"language"`
	Matches  []Match `json:"matches"`
	Error    string  `json:"error,omitempty"`
	Err      error   `json:"-"`
}

// FileJob represents a file to be processed.
type FileJob struct {
	AbsPath     string
	DisplayPath string
}

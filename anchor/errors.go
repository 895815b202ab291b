package anchor

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrEmptyTarget is returned when a target names neither a type nor a function.
var ErrEmptyTarget = errors.New("target is empty: expected a type or a function")

// FileReadError reports a failure to read a candidate file.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read file %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// ParseError reports that tree-sitter produced no syntax tree for a file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s: no syntax tree", e.Path)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// QueryPopulationError reports a template placeholder the target cannot fill.
type QueryPopulationError struct {
	Variable string
}

func (e *QueryPopulationError) Error() string {
	return fmt.Sprintf("query population failed: no value for {%s}", e.Variable)
}

// FileNotFoundError reports a path that does not exist in the source.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return "file not found: " + e.Path
}

// Is lets callers test with errors.Is(err, fs.ErrNotExist).
func (e *FileNotFoundError) Is(target error) bool {
	return target == fs.ErrNotExist
}

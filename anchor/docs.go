package anchor

import sitter "github.com/smacker/go-tree-sitter"

const commentKind = "comment"

// documentation returns the text of the node's immediately preceding sibling
// when that sibling is a comment, and "" otherwise. Only one sibling is
// inspected, so of a run of line comments only the last line is returned.
func documentation(node *sitter.Node, source []byte) string {
	prev := node.PrevSibling()
	if prev == nil || prev.Type() != commentKind {
		return ""
	}
	return prev.Content(source)
}

// nodeRange converts a node's span to 1-based positions.
func nodeRange(node *sitter.Node) Range {
	start := node.StartPoint()
	end := node.EndPoint()
	return Range{
		Start: Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1},
		End:   Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1},
	}
}

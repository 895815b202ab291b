package anchor

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"
)

// captureMarker names the capture that spans a whole matched definition.
const captureMarker = "capture"

// parser wraps a tree-sitter parser for a specific language.
// A parser is not safe for concurrent use.
type parser struct {
	parser *sitter.Parser
	lang   *Language
}

// newParser creates a new parser for the given language.
func newParser(language *Language) *parser {
	p := sitter.NewParser()
	p.SetLanguage(language.TreeSitterLang())
	return &parser{
		parser: p,
		lang:   language,
	}
}

// parse parses source code and returns the syntax tree.
func (p *parser) parse(path string, source []byte) (*sitter.Tree, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if tree == nil {
		return nil, &ParseError{Path: path}
	}
	return tree, nil
}

func (p *parser) close() {
	p.parser.Close()
}

// query represents a compiled tree-sitter query.
// A compiled query is immutable and can be shared across goroutines.
type query struct {
	query        *sitter.Query
	captureNames []string
}

// newQuery compiles a tree-sitter query string.
func newQuery(queryStr string, language *Language) (*query, error) {
	q, err := sitter.NewQuery([]byte(queryStr), language.TreeSitterLang())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	captureCount := int(q.CaptureCount())
	captureNames := make([]string, captureCount)
	for i := 0; i < captureCount; i++ {
		captureNames[i] = q.CaptureNameForId(uint32(i))
	}

	return &query{
		query:        q,
		captureNames: captureNames,
	}, nil
}

// run executes the query on a syntax tree and returns the nodes bound to the
// result marker, in traversal order. Matches whose predicates fail, or that
// lack the marker, contribute nothing.
func (q *query) run(tree *sitter.Tree, source []byte) []*sitter.Node {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q.query, tree.RootNode())

	var nodes []*sitter.Node
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)

		for _, capture := range match.Captures {
			if q.captureName(capture.Index) == captureMarker {
				nodes = append(nodes, capture.Node)
				break
			}
		}
	}

	return nodes
}

func (q *query) captureName(index uint32) string {
	if int(index) >= len(q.captureNames) {
		return fmt.Sprintf("capture_%d", index)
	}
	return q.captureNames[index]
}

// queryCache holds compiled queries keyed by language and query text.
type queryCache struct {
	cache *lru.Cache[string, *query]
}

func newQueryCache(size int) (*queryCache, error) {
	c, err := lru.New[string, *query](size)
	if err != nil {
		return nil, fmt.Errorf("create query cache: %w", err)
	}
	return &queryCache{cache: c}, nil
}

// get returns the compiled query, compiling it on a miss.
func (c *queryCache) get(queryStr string, language *Language) (*query, error) {
	key := language.Name() + "\x00" + queryStr
	if q, ok := c.cache.Get(key); ok {
		return q, nil
	}
	q, err := newQuery(queryStr, language)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, q)
	return q, nil
}

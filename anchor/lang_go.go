package anchor

import (
	"sync"

	"github.com/smacker/go-tree-sitter/golang"
)

var goLang = sync.OnceValue(func() *Language {
	return newLanguage("go", ".go", golang.GetLanguage())
})

// Go returns the Go language descriptor. Methods are matched on pointer and
// value receivers, including generic receivers; types on type specs and
// aliases.
func Go() *Language {
	return goLang()
}

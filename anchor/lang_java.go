package anchor

import (
	"sync"

	"github.com/smacker/go-tree-sitter/java"
)

var javaLang = sync.OnceValue(func() *Language {
	return newLanguage("java", ".java", java.GetLanguage())
})

// Java returns the Java language descriptor. Java has no free functions, so
// function targets never match.
func Java() *Language {
	return javaLang()
}

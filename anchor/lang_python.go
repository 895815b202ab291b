package anchor

import (
	"sync"

	"github.com/smacker/go-tree-sitter/python"
)

var pythonLang = sync.OnceValue(func() *Language {
	return newLanguage("python", ".py", python.GetLanguage())
})

// Python returns the Python language descriptor. A method is a function
// defined directly in a class body; a function is defined at module level.
func Python() *Language {
	return pythonLang()
}

package anchor

import (
	"regexp"
	"strings"
)

// Template variables.
const (
	functionVar = "function"
	receiverVar = "receiver"
)

var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Parameterize substitutes {function} and {receiver} in a query template with
// the target's identifiers. Substitution is textual: identifiers are not
// escaped for the query grammar.
func Parameterize(template string, t Target) (string, error) {
	vars := t.vars()

	var missing string
	out := placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", &QueryPopulationError{Variable: missing}
	}
	return out, nil
}

// templateVars lists the placeholders a template references, in order of
// first appearance.
func templateVars(template string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// compact collapses a template to a single line for log output.
func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

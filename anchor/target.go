package anchor

import "strings"

// RequestKind classifies what a target asks for.
type RequestKind int

const (
	// Functions looks up a free function.
	Functions RequestKind = iota + 1
	// Methods looks up a function bound to a type.
	Methods
	// Types looks up a type or class definition.
	Types
)

// String returns the catalog directory name of the kind.
func (k RequestKind) String() string {
	switch k {
	case Functions:
		return "functions"
	case Methods:
		return "methods"
	case Types:
		return "types"
	default:
		return "unknown"
	}
}

// callMarker marks a reference as a call ("name()").
const callMarker = "()"

// Target is a classified lookup request. The zero value is empty and
// classifies with ErrEmptyTarget.
type Target struct {
	typeName     string
	functionName string
}

// NewMethod returns a target for the method function on type typeName.
func NewMethod(typeName, function string) Target {
	return Target{typeName: typeName, functionName: function}
}

// NewFunction returns a target for a free function.
func NewFunction(name string) Target {
	return Target{functionName: name}
}

// NewType returns a target for a type definition.
func NewType(name string) Target {
	return Target{typeName: name}
}

// ParseTarget parses a reference such as "Type", "fn()" or "Type.fn()".
// With more than two dot-separated segments only the last two are kept.
func ParseTarget(ref string) (Target, error) {
	ref = strings.TrimSpace(ref)
	call := strings.HasSuffix(ref, callMarker)
	ref = strings.TrimSuffix(ref, callMarker)
	if ref == "" {
		return Target{}, ErrEmptyTarget
	}

	parts := strings.Split(ref, ".")
	var t Target
	switch n := len(parts); n {
	case 1:
		if call {
			t.functionName = strings.TrimSpace(parts[0])
		} else {
			t.typeName = strings.TrimSpace(parts[0])
		}
	default:
		t.typeName = strings.TrimSpace(parts[n-2])
		t.functionName = strings.TrimSpace(parts[n-1])
	}

	if t.empty() {
		return Target{}, ErrEmptyTarget
	}
	return t, nil
}

// TypeName returns the type identifier, or "" if absent.
func (t Target) TypeName() string { return t.typeName }

// FunctionName returns the function identifier, or "" if absent.
func (t Target) FunctionName() string { return t.functionName }

func (t Target) empty() bool {
	return t.typeName == "" && t.functionName == ""
}

// Kind classifies the target.
func (t Target) Kind() (RequestKind, error) {
	switch {
	case t.typeName != "" && t.functionName != "":
		return Methods, nil
	case t.typeName != "":
		return Types, nil
	case t.functionName != "":
		return Functions, nil
	default:
		return 0, ErrEmptyTarget
	}
}

// String renders the target canonically: "fn()", "Type.fn()" or "Type".
func (t Target) String() string {
	switch {
	case t.typeName != "" && t.functionName != "":
		return t.typeName + "." + t.functionName + callMarker
	case t.functionName != "":
		return t.functionName + callMarker
	default:
		return t.typeName
	}
}

// vars returns the template variables the target can fill.
func (t Target) vars() map[string]string {
	vars := make(map[string]string, 2)
	if t.functionName != "" {
		vars[functionVar] = t.functionName
	}
	if t.typeName != "" {
		vars[receiverVar] = t.typeName
	}
	return vars
}

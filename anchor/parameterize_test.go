package anchor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParameterize(t *testing.T) {
	tests := []struct {
		name     string
		template string
		target   Target
		want     string
		missing  string
	}{
		{
			name:     "method",
			template: `(#eq? @t "{receiver}") (#eq? @m "{function}")`,
			target:   NewMethod("Point", "Dist"),
			want:     `(#eq? @t "Point") (#eq? @m "Dist")`,
		},
		{
			name:     "repeated placeholder",
			template: `{function} {function}`,
			target:   NewFunction("run"),
			want:     `run run`,
		},
		{
			name:     "no placeholders",
			template: `(identifier) @capture`,
			target:   NewType("T"),
			want:     `(identifier) @capture`,
		},
		{
			name:     "function missing",
			template: `"{receiver}" "{function}"`,
			target:   NewType("T"),
			missing:  "function",
		},
		{
			name:     "receiver missing",
			template: `"{receiver}"`,
			target:   NewFunction("f"),
			missing:  "receiver",
		},
		{
			name:     "unknown placeholder",
			template: `"{function}" "{module}"`,
			target:   NewMethod("T", "f"),
			missing:  "module",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parameterize(tc.template, tc.target)
			if tc.missing != "" {
				var popErr *QueryPopulationError
				require.ErrorAs(t, err, &popErr)
				require.Equal(t, tc.missing, popErr.Variable)
				require.Empty(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParameterizeIsTextual(t *testing.T) {
	got, err := Parameterize(`"{function}"`, NewFunction(`a"b`))
	require.NoError(t, err)
	require.Equal(t, `"a"b"`, got)
}

func TestTemplateVars(t *testing.T) {
	require.Equal(t,
		[]string{"receiver", "function"},
		templateVars(`{receiver} {function} {receiver}`),
	)
	require.Empty(t, templateVars(`(identifier) @capture`))
}

func TestCompact(t *testing.T) {
	require.Equal(t, "((a) @capture (#eq? @a \"x\"))", compact("((a) @capture\n   (#eq? @a \"x\"))\n"))
}

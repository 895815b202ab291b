package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	v := map[string]any{"definition": "func f() <-chan int", "line": 3}

	var buf bytes.Buffer
	require.NoError(t, New(Config{Output: &buf}).Write(v))
	require.Equal(t, "{\n  \"definition\": \"func f() <-chan int\",\n  \"line\": 3\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, New(Config{Output: &buf, Compact: true}).Write(v))
	require.Equal(t, "{\"definition\":\"func f() <-chan int\",\"line\":3}\n", buf.String())
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	WriteError(&buf, errors.New("file not found: a<b>.go"))
	require.Equal(t, "{\"error\":\"file not found: a<b>.go\"}\n", buf.String())
}

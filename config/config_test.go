package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, Dir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, runtime.NumCPU(), cfg.Jobs)
	require.Equal(t, int64(2*1024*1024), cfg.MaxBytes)
	require.True(t, cfg.Gitignore)
	require.False(t, cfg.Compact)
	require.Empty(t, cfg.Include)
	require.Empty(t, cfg.Languages)
}

func TestLoadFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `jobs: 3
max_bytes: 1024
include:
  - "src/**"
exclude:
  - "**_test.go"
languages: [go, python]
gitignore: false
compact: true
`)

	cfg, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, &Config{
		Jobs:      3,
		MaxBytes:  1024,
		Include:   []string{"src/**"},
		Exclude:   []string{"**_test.go"},
		Languages: []string{"go", "python"},
		Gitignore: false,
		Compact:   true,
	}, cfg)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "jobs: 3\ncompact: false\n")
	t.Setenv("CODEANCHOR_JOBS", "7")
	t.Setenv("CODEANCHOR_COMPACT", "true")
	t.Setenv("CODEANCHOR_LANGUAGES", "java,go")

	cfg, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Jobs)
	require.True(t, cfg.Compact)
	require.Equal(t, []string{"java", "go"}, cfg.Languages)
}

func TestLoadInvalid(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "jobs: 0\n")

	_, err := Load(root)
	require.EqualError(t, err, "invalid configuration: jobs must be at least 1, got 0")

	writeConfig(t, root, "jobs: [\n")
	_, err = Load(root)
	require.ErrorContains(t, err, "failed to read config file")
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(Default()))

	cfg := Default()
	cfg.MaxBytes = -1
	require.EqualError(t, Validate(cfg), "max_bytes must not be negative, got -1")
}

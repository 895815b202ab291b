package snapshot

import (
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/codeanchor/anchor"
)

const (
	mainV1 = "package geo\n// v1\nfunc Area() int { return 1 }\n"
	mainV2 = "package geo\n// v2\nfunc Area() int { return 2 }\n"
)

// initRepo creates a repository with main.go committed on the default
// branch and changed on branch "next".
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		full := append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com"}, args...)
		cmd := exec.Command("git", full...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	run("init", "--quiet", "--initial-branch=trunk")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(mainV1), 0644))
	run("add", ".")
	run("commit", "--quiet", "-m", "v1")
	run("checkout", "--quiet", "-b", "next")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(mainV2), 0644))
	run("commit", "--quiet", "-am", "v2")
	run("checkout", "--quiet", "trunk")
	return dir
}

func newFinder(t *testing.T, repo *Repo) *anchor.Finder {
	t.Helper()
	f, err := anchor.NewFinder(anchor.FinderOptions{Source: repo})
	require.NoError(t, err)
	return f
}

func TestFromLocal(t *testing.T) {
	ctx := context.Background()
	src := initRepo(t)

	repo, err := FromLocal(ctx, src)
	require.NoError(t, err)
	require.NotEqual(t, src, repo.Root())
	require.Equal(t, "trunk", repo.DefaultBranch())

	branches, err := repo.Branches(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"trunk", "next"}, branches)

	require.NoError(t, repo.Checkout(ctx, "next"))
	data, err := repo.ReadFile("main.go")
	require.NoError(t, err)
	require.Equal(t, mainV2, string(data))

	// The source checkout is untouched.
	data, err = os.ReadFile(filepath.Join(src, "main.go"))
	require.NoError(t, err)
	require.Equal(t, mainV1, string(data))

	root := repo.Root()
	require.NoError(t, repo.Close())
	_, err = os.Stat(root)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOpenDoesNotRemove(t *testing.T) {
	ctx := context.Background()
	src := initRepo(t)

	repo, err := Open(ctx, src)
	require.NoError(t, err)
	require.Equal(t, src, repo.Root())
	require.NoError(t, repo.Close())
	require.DirExists(t, src)
}

func TestClone(t *testing.T) {
	ctx := context.Background()
	src := initRepo(t)

	repo, err := Clone(ctx, src)
	require.NoError(t, err)
	defer repo.Close()

	require.True(t, repo.Exists("main.go"))
	require.False(t, repo.Exists("missing.go"))

	branches, err := repo.Branches(ctx)
	require.NoError(t, err)
	require.Contains(t, branches, "origin/next")
}

func TestFetchAtRevision(t *testing.T) {
	ctx := context.Background()
	repo, err := FromLocal(ctx, initRepo(t))
	require.NoError(t, err)
	defer repo.Close()
	f := newFinder(t, repo)

	matches, err := repo.Fetch(ctx, f, anchor.NewFunction("Area"), "trunk", "main.go")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "func Area() int { return 1 }", matches[0].Definition)
	require.Equal(t, "// v1", matches[0].Documentation)

	defs, err := repo.Definitions(ctx, f, anchor.NewFunction("Area"), "next", "main.go")
	require.NoError(t, err)
	require.Equal(t, []string{"func Area() int { return 2 }"}, defs)

	docs, err := repo.Documentation(ctx, f, anchor.NewFunction("Area"), "next", "main.go")
	require.NoError(t, err)
	require.Equal(t, []string{"// v2"}, docs)

	// An empty revision keeps the current checkout.
	docs, err = repo.Documentation(ctx, f, anchor.NewFunction("Area"), "", "main.go")
	require.NoError(t, err)
	require.Equal(t, []string{"// v2"}, docs)

	_, err = repo.Fetch(ctx, f, anchor.NewFunction("Area"), "trunk", "gone.go")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReadLines(t *testing.T) {
	ctx := context.Background()
	repo, err := FromLocal(ctx, initRepo(t))
	require.NoError(t, err)
	defer repo.Close()

	lines, err := repo.ReadLines(ctx, "next", "main.go", 1, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"// v2", "func Area() int { return 2 }"}, lines)

	lines, err = repo.ReadLines(ctx, "trunk", "main.go", 2, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"func Area() int { return 1 }"}, lines)

	_, err = repo.ReadLines(ctx, "trunk", "main.go", 2, 1)
	require.EqualError(t, err, "invalid line range 2-1")

	_, err = repo.ReadLines(ctx, "trunk", "gone.go", 0, 1)
	var notFound *anchor.FileNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGitError(t *testing.T) {
	ctx := context.Background()
	repo, err := FromLocal(ctx, initRepo(t))
	require.NoError(t, err)
	defer repo.Close()

	err = repo.Checkout(ctx, "no-such-branch")
	var gitErr *GitError
	require.ErrorAs(t, err, &gitErr)
	require.Equal(t, []string{"checkout", "--quiet", "no-such-branch"}, gitErr.Args)
	require.Contains(t, err.Error(), "git checkout --quiet no-such-branch:")

	_, err = Open(ctx, t.TempDir())
	require.ErrorAs(t, err, &gitErr)
}

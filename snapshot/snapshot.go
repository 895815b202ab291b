// Package snapshot materializes a git repository in a private working
// directory and serves file contents at a chosen revision.
package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arjunmahishi/codeanchor/anchor"
)

// GitError reports a failed git command.
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *GitError) Unwrap() error { return e.Err }

// Repo is a git working directory owned by this process. Checking out a
// revision and reading files at it must not interleave, so the helpers that
// take a revision hold the repo lock for the whole sequence.
type Repo struct {
	dir           string
	owned         bool
	defaultBranch string

	mu sync.Mutex
}

// Clone clones url into a fresh temporary directory.
func Clone(ctx context.Context, url string) (*Repo, error) {
	dir, err := os.MkdirTemp("", "codeanchor-*")
	if err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	if _, err := git(ctx, "", "clone", "--quiet", url, dir); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	return newRepo(ctx, dir, true)
}

// FromLocal copies the repository at src into a temporary directory, so
// checkouts never touch the caller's working tree.
func FromLocal(ctx context.Context, src string) (*Repo, error) {
	dir, err := os.MkdirTemp("", "codeanchor-*")
	if err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.CopyFS(dir, os.DirFS(src)); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("copy %s: %w", src, err)
	}
	return newRepo(ctx, dir, true)
}

// Open uses an existing working directory in place. Checkouts modify it.
func Open(ctx context.Context, dir string) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	return newRepo(ctx, abs, false)
}

func newRepo(ctx context.Context, dir string, owned bool) (*Repo, error) {
	out, err := git(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		if owned {
			os.RemoveAll(dir)
		}
		return nil, err
	}
	return &Repo{
		dir:           dir,
		owned:         owned,
		defaultBranch: strings.TrimSpace(out),
	}, nil
}

// Root returns the working directory.
func (r *Repo) Root() string { return r.dir }

// DefaultBranch returns the branch checked out when the repo was opened.
func (r *Repo) DefaultBranch() string { return r.defaultBranch }

// String describes the snapshot.
func (r *Repo) String() string {
	return fmt.Sprintf("%s on branch %s", r.dir, r.defaultBranch)
}

// Close removes the working directory if the repo created it.
func (r *Repo) Close() error {
	if !r.owned {
		return nil
	}
	return os.RemoveAll(r.dir)
}

// Branches lists local and remote branch names.
func (r *Repo) Branches(ctx context.Context) ([]string, error) {
	out, err := git(ctx, r.dir, "branch", "-a", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		if b := strings.TrimSpace(line); b != "" {
			branches = append(branches, b)
		}
	}
	return branches, nil
}

// Checkout moves the working directory to rev.
func (r *Repo) Checkout(ctx context.Context, rev string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checkout(ctx, rev)
}

func (r *Repo) checkout(ctx context.Context, rev string) error {
	if rev == "" {
		return nil
	}
	_, err := git(ctx, r.dir, "checkout", "--quiet", rev)
	return err
}

// resolve maps a repo-relative path into the working directory. Absolute
// paths are used as given.
func (r *Repo) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.dir, path)
}

// ReadFile reads a file at the current checkout.
func (r *Repo) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(r.resolve(path))
}

// Exists reports whether path exists at the current checkout.
func (r *Repo) Exists(path string) bool {
	_, err := os.Stat(r.resolve(path))
	return !errors.Is(err, fs.ErrNotExist)
}

// At checks out rev and runs fn while holding the repo lock. An empty rev
// keeps the current checkout.
func (r *Repo) At(ctx context.Context, rev string, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkout(ctx, rev); err != nil {
		return err
	}
	return fn()
}

// Fetch looks target up in path at rev. The finder should read through this
// repo (anchor.FinderOptions.Source).
func (r *Repo) Fetch(
	ctx context.Context, finder *anchor.Finder, target anchor.Target, rev, path string,
) ([]anchor.Match, error) {
	var matches []anchor.Match
	err := r.At(ctx, rev, func() error {
		var err error
		matches, err = finder.Fetch(target, r.resolve(path))
		return err
	})
	return matches, err
}

// Definitions returns only the definition text of each match.
func (r *Repo) Definitions(
	ctx context.Context, finder *anchor.Finder, target anchor.Target, rev, path string,
) ([]string, error) {
	matches, err := r.Fetch(ctx, finder, target, rev, path)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Definition
	}
	return out, nil
}

// Documentation returns only the documentation text of each match.
func (r *Repo) Documentation(
	ctx context.Context, finder *anchor.Finder, target anchor.Target, rev, path string,
) ([]string, error) {
	matches, err := r.Fetch(ctx, finder, target, rev, path)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Documentation
	}
	return out, nil
}

// ReadLines returns lines start through end (0-based, inclusive) of path at
// rev. The window is clipped to the end of the file.
func (r *Repo) ReadLines(ctx context.Context, rev, path string, start, end int) ([]string, error) {
	if start < 0 || end < start {
		return nil, fmt.Errorf("invalid line range %d-%d", start, end)
	}

	var lines []string
	err := r.At(ctx, rev, func() error {
		full := r.resolve(path)
		data, err := os.ReadFile(full)
		if errors.Is(err, fs.ErrNotExist) {
			return &anchor.FileNotFoundError{Path: full}
		}
		if err != nil {
			return &anchor.FileReadError{Path: full, Err: err}
		}

		sc := bufio.NewScanner(bytes.NewReader(data))
		sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
		for i := 0; sc.Scan(); i++ {
			if i < start {
				continue
			}
			if i > end {
				break
			}
			lines = append(lines, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return &anchor.FileReadError{Path: full, Err: err}
		}
		return nil
	})
	return lines, err
}

// git runs a git command in dir and returns its stdout.
func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &GitError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

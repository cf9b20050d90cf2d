package githubrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ErrFetchFailed wraps clone failures: private or nonexistent repositories,
// network errors. The underlying git message is preserved because callers
// pattern-match it for friendlier display.
var ErrFetchFailed = errors.New("githubrepo: repository fetch failed")

// Checkout is a local, temporary materialization of a repository.
// The caller owns Path and must remove it when done.
type Checkout struct {
	Path          string
	Branch        string
	Commit        string
	CommitMessage string
}

// Fetcher acquires a local checkout for a repository identity.
type Fetcher interface {
	Fetch(ctx context.Context, id Identity) (Checkout, error)
}

// runGitCommand and runGitOutput are injectable in tests.
var runGitCommand = func(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

var runGitOutput = func(ctx context.Context, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// GitFetcher clones repositories shallowly into a fresh temp directory.
type GitFetcher struct {
	// Depth is the clone depth; 0 means 1.
	Depth int
}

func (f *GitFetcher) Fetch(ctx context.Context, id Identity) (Checkout, error) {
	if id.Owner == "" || id.Name == "" {
		return Checkout{}, fmt.Errorf("%w: owner and name are required", ErrFetchFailed)
	}
	dir, err := os.MkdirTemp("", "repoflow-checkout-*")
	if err != nil {
		return Checkout{}, fmt.Errorf("%w: mkdir temp: %v", ErrFetchFailed, err)
	}

	depth := f.Depth
	if depth <= 0 {
		depth = 1
	}
	cloneURL := fmt.Sprintf("https://github.com/%s/%s.git", id.Owner, id.Name)
	args := []string{"clone", "--depth", strconv.Itoa(depth)}
	if b := strings.TrimSpace(id.DefaultBranch); b != "" {
		args = append(args, "--branch", b, "--single-branch")
	}
	args = append(args, cloneURL, dir)
	if err := runGitCommand(ctx, args...); err != nil {
		_ = os.RemoveAll(dir)
		return Checkout{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	co := Checkout{Path: dir, Branch: id.DefaultBranch}
	if out, err := runGitOutput(ctx, "-C", dir, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		if b := strings.TrimSpace(out); b != "" {
			co.Branch = b
		}
	}
	if out, err := runGitOutput(ctx, "-C", dir, "log", "-1", "--format=%H%n%s"); err == nil {
		lines := strings.SplitN(strings.TrimSpace(out), "\n", 2)
		co.Commit = lines[0]
		if len(lines) > 1 {
			co.CommitMessage = strings.TrimSpace(lines[1])
		}
	}
	return co, nil
}

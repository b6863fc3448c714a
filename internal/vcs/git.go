// Package vcs reads changed files and their contents from git.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes git with the given arguments and returns stdout.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// GitRunner runs the git binary inside Dir.
type GitRunner struct {
	Dir string
}

func NewGitRunner(dir string) *GitRunner {
	return &GitRunner{Dir: dir}
}

func (g *GitRunner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s failed (exit %d): %s", args[0], exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("failed to run git %s: %w", args[0], err)
	}

	return string(output), nil
}

// ResolveCommit returns the full SHA of rev.
func ResolveCommit(ctx context.Context, runner Runner, rev string) (string, error) {
	out, err := runner.Run(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	sha := strings.TrimSpace(out)
	if sha == "" {
		return "", fmt.Errorf("failed to resolve %s: unknown revision", rev)
	}
	return sha, nil
}

// RepoRoot returns the top-level directory of the repository containing dir.
func RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := NewGitRunner(dir).Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ParseFileList splits NUL-separated output of git listings run with -z.
// Paths are taken verbatim, so names with spaces or non-ASCII characters
// are not quoted or trimmed.
func ParseFileList(output string) []string {
	files := []string{}
	for entry := range strings.SplitSeq(output, "\x00") {
		if entry != "" {
			files = append(files, entry)
		}
	}
	return files
}

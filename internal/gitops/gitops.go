// Package gitops records ledger changes as git commits.
package gitops

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned by Commit when the staged paths are unchanged.
var ErrNothingToCommit = errors.New("nothing to commit")

// git runs one git subcommand in dir and returns its trimmed stdout.
func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Init creates a repository at dir.
func Init(dir string) error {
	_, err := git(dir, "init", "--quiet")
	return err
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Commit stages paths (everything when none are given) and commits them as
// the given author, who also stands in as committer. Returns the short hash.
func Commit(dir, message, authorName, authorEmail string, paths ...string) (string, error) {
	if _, err := git(dir, append([]string{"add", "-A", "--"}, paths...)...); err != nil {
		return "", err
	}

	// diff --quiet exits 1 when something is staged.
	if _, err := git(dir, "diff", "--cached", "--quiet"); err == nil {
		return "", ErrNothingToCommit
	}

	_, err := git(dir,
		"-c", "user.name="+authorName,
		"-c", "user.email="+authorEmail,
		"commit", "--quiet", "-m", message,
		"--author", fmt.Sprintf("%s <%s>", authorName, authorEmail))
	if err != nil {
		return "", err
	}
	return git(dir, "rev-parse", "--short", "HEAD")
}

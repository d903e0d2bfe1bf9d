package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommit_Paths(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ledger"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ledger", "journal.csv"), []byte("entry_id\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("x"), 0o644))

	hash, err := Commit(dir, "import: 1 transaction", "Test Author", "test@example.com", "ledger")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "import: 1 transaction|Test Author <test@example.com>")

	// Unlisted files stay untracked.
	status := exec.Command("git", "status", "--porcelain")
	status.Dir = dir
	out, err = status.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "?? scratch.txt")
}

func TestCommit_NothingToCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	_, err := Commit(dir, "empty", "A", "a@example.com")
	assert.ErrorIs(t, err, ErrNothingToCommit)
}

func TestCommit_NotARepo(t *testing.T) {
	requireGit(t)
	_, err := Commit(t.TempDir(), "msg", "A", "a@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNothingToCommit)
	assert.Contains(t, err.Error(), "git add")
}

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuild compiles every package in the module, including ones no test in
// this package imports, then runs the resulting binary.
func TestBuild(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the module")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not on PATH")
	}

	all := exec.Command(goBin, "build", "./...")
	all.Dir = filepath.Join("..", "..")
	out, err := all.CombinedOutput()
	require.NoError(t, err, "go build ./...: %s", out)

	bin := filepath.Join(t.TempDir(), "cardledger")
	build := exec.Command(goBin, "build", "-o", bin, ".")
	build.Stderr = os.Stderr
	require.NoError(t, build.Run())

	out, err = exec.Command(bin, "--version").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(out), "dev (commit: none, built: unknown)")

	out, err = exec.Command(bin, "--help").CombinedOutput()
	require.NoError(t, err)
	for _, sub := range []string{"init", "import", "history"} {
		assert.Contains(t, string(out), sub)
	}
}

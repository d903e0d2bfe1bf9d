// Package buildinfo carries version details stamped in at link time.
package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/cleared-dev/cardledger/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the version line shown by --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}

// Package version holds build metadata injected at link time.
package version

import "fmt"

// Populated via -ldflags "-X chatrelay/internal/version.Version=..." etc.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a single-line version description.
func Info() string {
	return fmt.Sprintf("chatrelay %s (commit: %s, built: %s)", Version, Commit, Date)
}

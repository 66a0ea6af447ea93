// Package version holds build metadata injected via -ldflags.
package version

import "fmt"

// Set at build time:
//
//	go build -ldflags "-X nerachat/internal/version.Version=v1.0.0 -X nerachat/internal/version.Commit=$(git rev-parse --short HEAD) -X nerachat/internal/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a one-line summary of the build.
func Info() string {
	return fmt.Sprintf("nerachat %s (commit: %s, built: %s)", Version, Commit, Date)
}

// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/bowmanhq/bowman/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/bowmanhq/bowman/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/bowmanhq/bowman/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/bowman
package buildinfo

import "fmt"

// Overridden by -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information as three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template for --version.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}

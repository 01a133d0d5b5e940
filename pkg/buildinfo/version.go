// Package buildinfo carries the version stamped into release binaries.
//
//	go build -ldflags "-X github.com/matzehuels/gslbridge/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/gslbridge/pkg/buildinfo.Commit=$(git rev-parse HEAD)"
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Resolved returns Version, falling back to the main module version recorded
// by "go install" when no ldflags were given.
func Resolved() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}

// ShortCommit returns the first 7 characters of Commit.
func ShortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}

// String returns a single-line description, e.g. "v0.3.0 (1a2b3c4, 2026-01-02)".
func String() string {
	return fmt.Sprintf("%s (%s, %s)", Resolved(), ShortCommit(), Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}

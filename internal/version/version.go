// Package version carries build metadata injected with -ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/javadocref/internal/version.Version=v0.3.0" ./cmd/javadocref
package version

import "fmt"

var Version = "dev"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("javadocref %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}

// Package version carries build metadata injected with -ldflags -X.
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String renders the build metadata on one line
func String() string {
	return fmt.Sprintf("hubscout %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}

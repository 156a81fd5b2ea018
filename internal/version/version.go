package version

import "fmt"

// Version is the application version, set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/docleaflet/internal/version.Version=v0.3.0".
var Version = "unknown"

// Build metadata, set the same way as Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by the CLI.
func String() string {
	return fmt.Sprintf("docleaflet %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}

// Package version holds build metadata stamped via ldflags.
package version

//nolint:revive // Overridden by the build pipeline.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Package version holds build metadata for the cognicart binary,
// injected via ldflags.
package version

// Service is the canonical service name used in logs.
const Service = "cognicart"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Package version carries the build metadata shown in the window title
// and the about dialog.
package version

// Overridden at link time via -ldflags="-X puzzle-maker/internal/version.Version=...".
var (
	// Version is the release version.
	Version = "0.1.0"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// GitCommit is the abbreviated commit hash the binary was built from.
	GitCommit = "unknown"
)

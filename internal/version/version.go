// Package version holds build metadata injected at link time.
package version

// Set via -ldflags "-X uiauto/internal/version.Version=..." at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

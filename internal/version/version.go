// Package version reports the navbuilder build.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X github.com/Mshivam2409/rustduino/internal/version.Version=v0.3.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Resolved returns Version, falling back to the main module version recorded
// by `go install` when ldflags were not set.
func Resolved() string {
	if Version != "unknown" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// String is the one-line version banner.
func String() string {
	return fmt.Sprintf("navbuilder %s (commit %s, built %s)", Resolved(), GitCommit, BuildTime)
}

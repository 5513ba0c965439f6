package version

import (
	"fmt"
	"runtime"
)

// These variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/philipparndt/stlsplit/version.Version=v1.2.0"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetFullVersion returns a full version string with commit and date
func GetFullVersion() string {
	if Version == "dev" {
		return "dev"
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
}

// GetBuildInfo returns the version together with the Go runtime it was built with
func GetBuildInfo() string {
	return fmt.Sprintf("stlsplit %s %s/%s %s", GetFullVersion(), runtime.GOOS, runtime.GOARCH, runtime.Version())
}

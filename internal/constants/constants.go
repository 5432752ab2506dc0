// Package constants holds build metadata.
package constants

import "runtime"

// Version and Commit are set at build time:
//
//	go build -ldflags "-X github.com/chrissnell/lakealmanac/internal/constants.Version=1.2.0 \
//	  -X github.com/chrissnell/lakealmanac/internal/constants.Commit=$(git rev-parse --short HEAD)"
var (
	Version = "0.1.0-dev"
	Commit  = "unknown"
)

// Platform is the OS/architecture the binary was built for
const Platform = runtime.GOOS + "/" + runtime.GOARCH

// BuildInfo returns the one-line version string printed by the CLI
func BuildInfo() string {
	return Version + " (" + Commit + ", " + Platform + ")"
}

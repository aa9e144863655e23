// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/featurehack/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/featurehack/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/featurehack/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)"
package buildinfo

import "fmt"

var (
	Version = "dev"     // semantic version, e.g. "v1.2.3"
	Commit  = "none"    // git commit SHA
	Date    = "unknown" // build date
)

// Info is a snapshot of the build variables.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String formats the build information the way cargo prints its own version,
// e.g. "featurehack v1.2.3 (abc1234 2025-01-02)".
func (i Info) String() string {
	if i.Commit == "none" && i.Date == "unknown" {
		return "featurehack " + i.Version
	}
	return fmt.Sprintf("featurehack %s (%s %s)", i.Version, i.Commit, i.Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return Get().String() + "\n"
}

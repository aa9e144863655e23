// Package args parses featurehack's command line.
//
// featurehack sits in front of a cargo subcommand:
//
//	cargo featurehack [OPTIONS] [SUBCOMMAND] [CARGO OPTIONS]... [-- ARGS]...
//
// Options featurehack knows are consumed wherever they appear; everything
// else, including the subcommand's own flags, is forwarded to cargo in order.
// Cargo options must follow the subcommand.
// Parsing is aware of the cargo capability level so flags the detected cargo
// cannot support are rejected up front.
package args

import (
	"slices"

	"github.com/matzehuels/featurehack/pkg/metadata"
)

// Args is the fully resolved invocation. It is never modified after [Parse].
type Args struct {
	// Subcommand is the cargo subcommand to run, empty when absent.
	Subcommand string
	// Leading holds cargo options that follow the subcommand, before "--".
	Leading []string
	// Trailing holds everything after "--".
	Trailing []string

	ManifestPath string
	Packages     []string
	Workspace    bool
	Exclude      []string

	EachFeature         bool
	FeaturePowerset     bool
	Depth               int // maximum powerset combination size, 0 for no limit
	OptionalDeps        bool
	IncludeDepsFeatures bool
	Features            []string // always enabled, forwarded with --features

	NoDevDeps     bool
	RemoveDevDeps bool
	IgnorePrivate bool

	Verbose bool
}

// RequireManifestInfo reports whether the invocation needs facts only the
// manifest files provide at the given capability level.
func (a *Args) RequireManifestInfo(level int) bool {
	return a.NoDevDeps || a.RemoveDevDeps || (a.IgnorePrivate && level < metadata.PublishLevel)
}

// Offline reports whether cargo was asked not to touch the network.
func (a *Args) Offline() bool {
	return slices.Contains(a.Leading, "--offline") || slices.Contains(a.Leading, "--frozen")
}

// Locked reports whether cargo was asked to keep Cargo.lock unchanged.
func (a *Args) Locked() bool {
	return slices.Contains(a.Leading, "--locked") || slices.Contains(a.Leading, "--frozen")
}

// IteratesFeatures reports whether more than one feature combination runs
// per package.
func (a *Args) IteratesFeatures() bool {
	return a.EachFeature || a.FeaturePowerset
}

// Package metadata models the output of `cargo metadata --format-version 1`.
//
// Only the fields featurehack reads are decoded. Fields that cargo added
// in later releases are decoded according to the capability level of the
// cargo that produced them, see [Decode].
package metadata

import (
	"maps"
	"slices"
)

// PackageID uniquely identifies a resolved package (name, version and source).
type PackageID string

// Metadata is the resolved workspace.
type Metadata struct {
	WorkspaceRoot    string
	WorkspaceMembers []PackageID
	Packages         map[PackageID]*Package
	Resolve          Resolve
}

// Resolve is the resolved dependency graph.
type Resolve struct {
	Nodes map[PackageID]*Node
	// Root is the package cargo was invoked for, empty for a virtual
	// workspace manifest.
	Root PackageID
}

// Package is the static description of a package.
type Package struct {
	ID           PackageID
	Name         string
	Version      string
	ManifestPath string
	Dependencies []Dependency
	// Features maps each feature to the features and dependencies it enables.
	Features map[string][]string
	// Publish is false when the package sets `publish = false`.
	// Cargo reports it from 1.39; on older cargo it is always true and the
	// manifest is the authoritative source.
	Publish bool
}

// FeatureNames returns the package's feature names in sorted order.
func (p *Package) FeatureNames() []string {
	return slices.Sorted(maps.Keys(p.Features))
}

// Dependency is a dependency as declared in the package's manifest.
type Dependency struct {
	Name     string // package name of the dependency
	Rename   string // `package = "..."` alias, empty when not renamed
	Kind     string // "", "dev" or "build"
	Target   string // platform cfg, empty when unconditional
	Optional bool
}

// FeaturePrefix returns the name a dependent uses to address the
// dependency's features ("dep/feature").
func (d Dependency) FeaturePrefix() string {
	if d.Rename != "" {
		return d.Rename
	}
	return d.Name
}

// Node is a package in the resolved graph.
type Node struct {
	ID   PackageID
	Deps []NodeDep
}

// NodeDep is a resolved dependency edge.
type NodeDep struct {
	// Name is the dependency's name as a Rust identifier (dashes replaced,
	// renames applied). It is not necessarily a valid feature prefix.
	Name     string
	Pkg      PackageID
	DepKinds []DepKindInfo
}

// IsNormal reports whether any of the edge's kinds is an unconditional
// normal dependency. Edges from cargo older than 1.41 carry no kinds and
// are never normal.
func (d NodeDep) IsNormal() bool {
	return slices.ContainsFunc(d.DepKinds, DepKindInfo.IsNormal)
}

// DepKindInfo annotates one way in which an edge is depended upon.
type DepKindInfo struct {
	Kind   string // "" for normal, "dev" or "build"
	Target string // platform cfg, empty when unconditional
}

// IsNormal reports whether the annotation has neither a kind nor a target.
func (k DepKindInfo) IsNormal() bool {
	return k.Kind == "" && k.Target == ""
}

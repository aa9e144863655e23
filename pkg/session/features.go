package session

import (
	"slices"

	"github.com/matzehuels/featurehack/pkg/metadata"
)

// DepsFeatures returns "dep/feature" for every feature of every normal
// dependency of id, in resolve-graph edge order. The result may contain
// duplicates.
//
// Only edges with an unconditional normal dependency kind count; build,
// dev and platform-specific edges are skipped. A resolved edge is matched to
// the declared dependency by package name, so when several declared
// dependencies share a name the first one decides the prefix.
func (c *Context) DepsFeatures(id metadata.PackageID) []string {
	node := c.Node(id)
	pkg := c.Package(id)

	var features []string
	// TODO: unpublished dependencies never appear in node.Deps.
	for _, dep := range node.Deps {
		if !dep.IsNormal() {
			continue
		}
		depPkg := c.Package(dep.Pkg)

		// dep.Name is a Rust identifier, not a feature prefix, and declared
		// dependencies carry no package id, so match on the package name.
		i := slices.IndexFunc(pkg.Dependencies, func(d metadata.Dependency) bool {
			return d.Name == depPkg.Name
		})
		if i < 0 {
			continue
		}
		prefix := pkg.Dependencies[i].FeaturePrefix()
		for _, f := range depPkg.FeatureNames() {
			features = append(features, prefix+"/"+f)
		}
		// TODO: optional dependencies of depPkg are not forwarded.
	}
	return features
}

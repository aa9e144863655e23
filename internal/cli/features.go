package cli

import (
	"slices"

	"github.com/matzehuels/featurehack/pkg/metadata"
	"github.com/matzehuels/featurehack/pkg/session"
)

// combination is one set of feature flags to run a package with.
type combination struct {
	features  []string
	noDefault bool // --no-default-features
	all       bool // --all-features
}

// candidateFeatures returns the features iterated for id: its own features
// except "default", optional dependencies with --optional-deps, and features
// of normal workspace dependencies with --include-deps-features. Duplicates
// are dropped, keeping the first occurrence.
func candidateFeatures(sess *session.Context, id metadata.PackageID) []string {
	a := sess.Args()
	pkg := sess.Package(id)

	var out []string
	add := func(f string) {
		if f != "default" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}

	for _, f := range pkg.FeatureNames() {
		add(f)
	}
	if a.OptionalDeps {
		for _, d := range pkg.Dependencies {
			if d.Optional && d.Kind == "" {
				add(d.FeaturePrefix())
			}
		}
	}
	if a.IncludeDepsFeatures {
		for _, f := range sess.DepsFeatures(id) {
			add(f)
		}
	}
	return out
}

// combinations returns the runs for id, in execution order.
func combinations(sess *session.Context, id metadata.PackageID) []combination {
	a := sess.Args()
	if !a.IteratesFeatures() {
		return []combination{{}}
	}

	features := candidateFeatures(sess, id)
	if len(features) == 0 {
		return []combination{{}}
	}

	var sets [][]string
	if a.EachFeature {
		sets = append(sets, nil)
		for _, f := range features {
			sets = append(sets, []string{f})
		}
	} else {
		sets = powerset(features, a.Depth)
	}

	out := make([]combination, 0, len(sets)+1)
	for _, s := range sets {
		out = append(out, combination{features: s, noDefault: true})
	}
	// The full powerset already ends with every feature enabled.
	if a.EachFeature || (a.Depth > 0 && a.Depth < len(features)) {
		out = append(out, combination{all: true})
	}
	return out
}

// powerset returns every subset of items with at most depth elements
// (all subsets when depth is 0), ordered by size and then by position.
func powerset(items []string, depth int) [][]string {
	if depth <= 0 || depth > len(items) {
		depth = len(items)
	}

	out := [][]string{nil}
	var pick func(start, size int, cur []string)
	pick = func(start, size int, cur []string) {
		if len(cur) == size {
			out = append(out, slices.Clone(cur))
			return
		}
		for i := start; i <= len(items)-(size-len(cur)); i++ {
			pick(i+1, size, append(cur, items[i]))
		}
	}
	for size := 1; size <= depth; size++ {
		pick(0, size, make([]string, 0, size))
	}
	return out
}

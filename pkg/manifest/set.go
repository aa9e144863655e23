package manifest

import (
	"fmt"

	"github.com/matzehuels/featurehack/pkg/metadata"
)

// Set holds the manifest of every workspace member, keyed by package id.
// A Set is either fully loaded by [LoadSet] or absent (a nil *Set).
type Set struct {
	manifests map[metadata.PackageID]*Manifest
}

// Loader reads one manifest. [Load] is the default.
type Loader func(path string) (*Manifest, error)

// LoadSet loads the manifest of every workspace member exactly once.
// The first failure aborts the load and no partial Set is returned.
func LoadSet(m *metadata.Metadata, load Loader) (*Set, error) {
	if load == nil {
		load = Load
	}
	s := &Set{manifests: make(map[metadata.PackageID]*Manifest, len(m.WorkspaceMembers))}
	for _, id := range m.WorkspaceMembers {
		if _, ok := s.manifests[id]; ok {
			continue
		}
		manifest, err := load(m.Packages[id].ManifestPath)
		if err != nil {
			return nil, err
		}
		s.manifests[id] = manifest
	}
	return s, nil
}

// Get returns the manifest of a workspace member. Asking for a package that
// is not a workspace member is a programming error and panics.
func (s *Set) Get(id metadata.PackageID) *Manifest {
	m, ok := s.manifests[id]
	if !ok {
		panic(fmt.Sprintf("manifest: %s is not a workspace member", id))
	}
	return m
}

// Len returns the number of loaded manifests.
func (s *Set) Len() int {
	return len(s.manifests)
}

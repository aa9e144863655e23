package metadata

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/featurehack/pkg/cargo"
	"github.com/matzehuels/featurehack/pkg/errors"
)

// Capability levels at which cargo metadata gained fields featurehack reads.
const (
	PublishLevel  = 39 // packages[].publish
	DepKindsLevel = 41 // resolve.nodes[].deps[].dep_kinds
)

// Options configures the `cargo metadata` invocation.
type Options struct {
	ManifestPath string
	Offline      bool
	Locked       bool
}

// Load runs `cargo metadata` and decodes the result.
func Load(ctx context.Context, cargoPath string, level int, opts Options) (*Metadata, error) {
	p := cargo.NewProcess(cargoPath).Args("metadata", "--format-version", "1")
	if opts.Offline {
		p.Arg("--offline")
	}
	if opts.Locked {
		p.Arg("--locked")
	}
	if opts.ManifestPath != "" {
		p.ManifestPath(opts.ManifestPath)
	}

	out, err := p.Output(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadata, err, "failed to get metadata")
	}
	return Decode(out, level)
}

type rawMetadata struct {
	Packages         []rawPackage `json:"packages"`
	WorkspaceMembers []PackageID  `json:"workspace_members"`
	Resolve          *struct {
		Nodes []rawNode  `json:"nodes"`
		Root  *PackageID `json:"root"`
	} `json:"resolve"`
	WorkspaceRoot string `json:"workspace_root"`
}

type rawPackage struct {
	ID           PackageID           `json:"id"`
	Name         string              `json:"name"`
	Version      string              `json:"version"`
	ManifestPath string              `json:"manifest_path"`
	Dependencies []rawDependency     `json:"dependencies"`
	Features     map[string][]string `json:"features"`
	Publish      *[]string           `json:"publish"`
}

type rawDependency struct {
	Name     string  `json:"name"`
	Rename   *string `json:"rename"`
	Kind     *string `json:"kind"`
	Target   *string `json:"target"`
	Optional bool    `json:"optional"`
}

type rawNode struct {
	ID   PackageID    `json:"id"`
	Deps []rawNodeDep `json:"deps"`
}

type rawNodeDep struct {
	Name     string    `json:"name"`
	Pkg      PackageID `json:"pkg"`
	DepKinds []struct {
		Kind   *string `json:"kind"`
		Target *string `json:"target"`
	} `json:"dep_kinds"`
}

// Decode parses `cargo metadata --format-version 1` output produced by cargo
// at the given capability level, and checks that every workspace member and
// resolved edge refers to a known package.
func Decode(data []byte, level int) (*Metadata, error) {
	var raw rawMetadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadata, err, "failed to parse output from `cargo metadata`")
	}
	if raw.Resolve == nil {
		return nil, errors.New(errors.ErrCodeMetadata, "`cargo metadata` output has no resolve graph")
	}

	m := &Metadata{
		WorkspaceRoot:    raw.WorkspaceRoot,
		WorkspaceMembers: raw.WorkspaceMembers,
		Packages:         make(map[PackageID]*Package, len(raw.Packages)),
		Resolve:          Resolve{Nodes: make(map[PackageID]*Node, len(raw.Resolve.Nodes))},
	}
	if raw.Resolve.Root != nil {
		m.Resolve.Root = *raw.Resolve.Root
	}

	for _, rp := range raw.Packages {
		pkg := &Package{
			ID:           rp.ID,
			Name:         rp.Name,
			Version:      rp.Version,
			ManifestPath: rp.ManifestPath,
			Features:     rp.Features,
			Publish:      true,
		}
		if pkg.Features == nil {
			pkg.Features = map[string][]string{}
		}
		// `publish = false` is reported as an empty registry list.
		if level >= PublishLevel && rp.Publish != nil && len(*rp.Publish) == 0 {
			pkg.Publish = false
		}
		for _, rd := range rp.Dependencies {
			pkg.Dependencies = append(pkg.Dependencies, Dependency{
				Name:     rd.Name,
				Rename:   deref(rd.Rename),
				Kind:     deref(rd.Kind),
				Target:   deref(rd.Target),
				Optional: rd.Optional,
			})
		}
		m.Packages[pkg.ID] = pkg
	}

	for _, rn := range raw.Resolve.Nodes {
		node := &Node{ID: rn.ID}
		for _, rd := range rn.Deps {
			if _, ok := m.Packages[rd.Pkg]; !ok {
				return nil, errors.New(errors.ErrCodeMetadata, "dependency %s of %s is not in packages", rd.Pkg, rn.ID)
			}
			dep := NodeDep{Name: rd.Name, Pkg: rd.Pkg}
			if level >= DepKindsLevel {
				for _, k := range rd.DepKinds {
					dep.DepKinds = append(dep.DepKinds, DepKindInfo{Kind: deref(k.Kind), Target: deref(k.Target)})
				}
			}
			node.Deps = append(node.Deps, dep)
		}
		m.Resolve.Nodes[node.ID] = node
	}

	for _, id := range m.WorkspaceMembers {
		if _, ok := m.Packages[id]; !ok {
			return nil, errors.New(errors.ErrCodeMetadata, "workspace member %s is not in packages", id)
		}
		if _, ok := m.Resolve.Nodes[id]; !ok {
			return nil, errors.New(errors.ErrCodeMetadata, "workspace member %s is not in the resolve graph", id)
		}
	}
	if m.Resolve.Root != "" {
		if _, ok := m.Packages[m.Resolve.Root]; !ok {
			return nil, errors.New(errors.ErrCodeMetadata, "resolve root %s is not in packages", m.Resolve.Root)
		}
	}

	return m, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

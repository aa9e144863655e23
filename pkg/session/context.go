package session

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/featurehack/pkg/args"
	"github.com/matzehuels/featurehack/pkg/cache"
	"github.com/matzehuels/featurehack/pkg/cargo"
	"github.com/matzehuels/featurehack/pkg/manifest"
	"github.com/matzehuels/featurehack/pkg/metadata"
)

// Options supplies the collaborators used by [New]. Nil fields select the
// real implementations; tests replace them with fakes.
type Options struct {
	Logger *log.Logger
	// Cache remembers probed cargo versions. Nil disables caching.
	Cache cache.Cache

	Binary       func() string
	ProbeVersion func(ctx context.Context, cargoPath string) (int, error)
	ParseArgs    func(raw []string, cargoPath string, level int) (*args.Args, error)
	LoadMetadata func(ctx context.Context, a *args.Args, cargoPath string, level int) (*metadata.Metadata, error)
	LoadManifest manifest.Loader
}

func (o Options) withDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Binary == nil {
		opts.Binary = cargo.Binary
	}
	if opts.ProbeVersion == nil {
		c := opts.Cache
		opts.ProbeVersion = func(ctx context.Context, cargoPath string) (int, error) {
			v, err := cargo.ProbeVersion(ctx, cargoPath, c)
			if err != nil {
				return 0, err
			}
			return v.Level(), nil
		}
	}
	if opts.ParseArgs == nil {
		opts.ParseArgs = args.Parse
	}
	if opts.LoadMetadata == nil {
		opts.LoadMetadata = loadMetadata
	}
	if opts.LoadManifest == nil {
		opts.LoadManifest = manifest.Load
	}
	return opts
}

func loadMetadata(ctx context.Context, a *args.Args, cargoPath string, level int) (*metadata.Metadata, error) {
	return metadata.Load(ctx, cargoPath, level, metadata.Options{
		ManifestPath: a.ManifestPath,
		Offline:      a.Offline(),
		Locked:       a.Locked(),
	})
}

// Context is the immutable state of one featurehack invocation.
type Context struct {
	args     *args.Args
	metadata *metadata.Metadata
	// manifests is nil unless args required manifest info at construction.
	manifests    *manifest.Set
	privacy      privacy
	cargo        string
	cargoVersion int
}

// New builds the Context for raw command-line arguments.
func New(ctx context.Context, raw []string, opts Options) (*Context, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	cargoPath := opts.Binary()

	// Level 0 turns off every version-dependent decision.
	level, err := opts.ProbeVersion(ctx, cargoPath)
	if err != nil {
		logger.Warn("could not determine cargo version, assuming the oldest supported", "cargo", cargoPath, "err", err)
		level = 0
	}
	logger.Debug("probed cargo", "path", cargoPath, "level", level)

	a, err := opts.ParseArgs(raw, cargoPath, level)
	if err != nil {
		return nil, err
	}
	if a.Subcommand == "" && !a.RemoveDevDeps {
		panic("session: no subcommand or valid flag specified")
	}

	md, err := opts.LoadMetadata(ctx, a, cargoPath, level)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded metadata", "root", md.WorkspaceRoot, "members", len(md.WorkspaceMembers), "packages", len(md.Packages))

	var manifests *manifest.Set
	if a.RequireManifestInfo(level) {
		manifests, err = manifest.LoadSet(md, opts.LoadManifest)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded manifests", "count", manifests.Len())
	}

	return &Context{
		args:         a,
		metadata:     md,
		manifests:    manifests,
		privacy:      privacyFor(level),
		cargo:        cargoPath,
		cargoVersion: level,
	}, nil
}

// Args returns the parsed command line.
func (c *Context) Args() *args.Args { return c.args }

// Cargo returns the resolved cargo executable.
func (c *Context) Cargo() string { return c.cargo }

// CargoVersion returns the capability level of cargo, 0 when unknown.
func (c *Context) CargoVersion() int { return c.cargoVersion }

// WorkspaceRoot returns the directory containing the workspace manifest.
func (c *Context) WorkspaceRoot() string { return c.metadata.WorkspaceRoot }

// Package returns the static description of a workspace member or resolved
// dependency. Any other id is a programming error and panics.
func (c *Context) Package(id metadata.PackageID) *metadata.Package {
	return mustGet(c.metadata.Packages, id, "package")
}

// Node returns the resolved graph node of id. Any id outside the resolve
// graph is a programming error and panics.
func (c *Context) Node(id metadata.PackageID) *metadata.Node {
	return mustGet(c.metadata.Resolve.Nodes, id, "node")
}

// WorkspaceMembers iterates the workspace members in metadata order.
// The sequence can be ranged over any number of times.
func (c *Context) WorkspaceMembers() iter.Seq[metadata.PackageID] {
	return slices.Values(c.metadata.WorkspaceMembers)
}

// CurrentPackage returns the package cargo resolved the manifest path to.
// It reports false for a virtual workspace manifest.
func (c *Context) CurrentPackage() (metadata.PackageID, bool) {
	root := c.metadata.Resolve.Root
	return root, root != ""
}

// Manifest returns the parsed manifest of a workspace member. It may only be
// called when the command line required manifest info; otherwise it panics.
func (c *Context) Manifest(id metadata.PackageID) *manifest.Manifest {
	if c.manifests == nil {
		panic("session: manifests were not loaded for this invocation")
	}
	return c.manifests.Get(id)
}

// IsPrivate reports whether id is marked `publish = false`.
func (c *Context) IsPrivate(id metadata.PackageID) bool {
	return c.privacy.isPrivate(c, id)
}

// Process returns a new cargo invocation. With --verbose the manifest path
// is shown in progress output.
func (c *Context) Process() *cargo.Process {
	p := cargo.NewProcess(c.cargo)
	if c.args.Verbose {
		p.DisplayManifestPath()
	}
	return p
}

func mustGet[V any](m map[metadata.PackageID]V, id metadata.PackageID, what string) V {
	v, ok := m[id]
	if !ok {
		panic(fmt.Sprintf("session: unknown %s %s", what, id))
	}
	return v
}

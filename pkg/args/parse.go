package args

import (
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/matzehuels/featurehack/pkg/errors"
	"github.com/matzehuels/featurehack/pkg/metadata"
)

// ErrHelp is returned by [Parse] when -h or --help was given.
var ErrHelp = pflag.ErrHelp

// subcommandName is the first argument cargo passes when featurehack runs
// as `cargo featurehack`.
const subcommandName = "featurehack"

func newFlagSet(a *Args) *pflag.FlagSet {
	fs := pflag.NewFlagSet(subcommandName, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)

	fs.StringVar(&a.ManifestPath, "manifest-path", "", "path to Cargo.toml")
	fs.StringSliceVarP(&a.Packages, "package", "p", nil, "package(s) to run the subcommand on")
	fs.BoolVar(&a.Workspace, "workspace", false, "run the subcommand on every workspace member")
	fs.BoolVar(&a.Workspace, "all", false, "alias for --workspace")
	fs.StringSliceVar(&a.Exclude, "exclude", nil, "exclude packages from the check (requires --workspace)")

	fs.BoolVar(&a.EachFeature, "each-feature", false, "run once for each feature")
	fs.BoolVar(&a.FeaturePowerset, "feature-powerset", false, "run once for each combination of features")
	fs.IntVar(&a.Depth, "depth", 0, "maximum number of features per combination (requires --feature-powerset)")
	fs.BoolVar(&a.OptionalDeps, "optional-deps", false, "treat optional dependencies as features")
	fs.BoolVar(&a.IncludeDepsFeatures, "include-deps-features", false, "include features of workspace dependencies")
	fs.StringSliceVar(&a.Features, "features", nil, "space or comma separated features to always enable")

	fs.BoolVar(&a.NoDevDeps, "no-dev-deps", false, "remove dev-dependencies while running, then restore them")
	fs.BoolVar(&a.RemoveDevDeps, "remove-dev-deps", false, "remove dev-dependencies and do not restore them")
	fs.BoolVar(&a.IgnorePrivate, "ignore-private", false, "skip packages with publish = false")

	fs.BoolVarP(&a.Verbose, "verbose", "v", false, "use verbose output")
	fs.BoolP("help", "h", false, "print help")
	return fs
}

// Usage returns the option reference printed by --help.
func Usage() string {
	var b strings.Builder
	b.WriteString("Usage: cargo featurehack [OPTIONS] [SUBCOMMAND] [CARGO OPTIONS]... [-- ARGS]...\n\nOptions:\n")
	b.WriteString(newFlagSet(&Args{}).FlagUsages())
	return b.String()
}

// Parse parses raw command-line arguments (without the program name) for a
// cargo at the given capability level.
func Parse(raw []string, cargo string, level int) (*Args, error) {
	if len(raw) > 0 && raw[0] == subcommandName {
		raw = raw[1:]
	}

	a := &Args{}
	fs := newFlagSet(a)

	own, err := split(fs, raw, a)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(own); err != nil {
		if err == pflag.ErrHelp {
			return nil, ErrHelp
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "invalid arguments")
	}
	if help, _ := fs.GetBool("help"); help {
		return nil, ErrHelp
	}

	a.Features = splitFeatures(a.Features)
	if err := validate(a, level); err != nil {
		return nil, err
	}
	return a, nil
}

// split separates featurehack's own flags from the subcommand and the
// arguments forwarded to cargo.
func split(fs *pflag.FlagSet, raw []string, a *Args) ([]string, error) {
	var own []string
	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		if arg == "--" {
			a.Trailing = append(a.Trailing, raw[i+1:]...)
			break
		}

		flag, inline := lookup(fs, arg)
		switch {
		case IsVerboseBundle(arg):
			// -vv raises cargo's verbosity too, so it is forwarded as well.
			a.Verbose = true
			a.Leading = append(a.Leading, arg)
		case flag != nil:
			own = append(own, arg)
			if !inline && flag.NoOptDefVal == "" {
				if i+1 >= len(raw) {
					return nil, errors.New(errors.ErrCodeInvalidArgument, "the argument '%s' requires a value but none was supplied", arg)
				}
				i++
				own = append(own, raw[i])
			}
		case a.Subcommand == "" && !strings.HasPrefix(arg, "-"):
			a.Subcommand = arg
		case a.Subcommand == "":
			// Without knowing whether a cargo option takes a value, its value
			// could be mistaken for the subcommand.
			return nil, errors.New(errors.ErrCodeInvalidArgument, "cargo option '%s' must come after the subcommand", arg)
		default:
			a.Leading = append(a.Leading, arg)
		}
	}
	return own, nil
}

// lookup returns the featurehack flag arg refers to, and whether its value
// is attached ("--depth=2", "-pfoo").
func lookup(fs *pflag.FlagSet, arg string) (*pflag.Flag, bool) {
	switch {
	case strings.HasPrefix(arg, "--") && len(arg) > 2:
		name, _, inline := strings.Cut(arg[2:], "=")
		return fs.Lookup(name), inline
	case strings.HasPrefix(arg, "-") && len(arg) > 1:
		f := fs.ShorthandLookup(arg[1:2])
		if f == nil {
			return nil, false
		}
		if f.NoOptDefVal != "" && len(arg) > 2 {
			// Other bundled boolean shorthands are forwarded as-is.
			return nil, false
		}
		return f, len(arg) > 2
	}
	return nil, false
}

// IsVerboseBundle reports whether arg repeats the -v shorthand, as in -vv.
func IsVerboseBundle(arg string) bool {
	return len(arg) > 2 && arg[0] == '-' && strings.Trim(arg[1:], "v") == ""
}

// splitFeatures accepts both "a,b" and "a b" like cargo does.
func splitFeatures(in []string) []string {
	var out []string
	for _, f := range in {
		out = append(out, strings.Fields(f)...)
	}
	return out
}

func validate(a *Args, level int) error {
	if a.Subcommand == "" && !a.RemoveDevDeps {
		return errors.New(errors.ErrCodeInvalidArgument, "no subcommand or valid flag specified")
	}
	if a.Subcommand != "" && a.RemoveDevDeps {
		return errors.New(errors.ErrCodeInvalidArgument, "--remove-dev-deps may not be used together with subcommand")
	}

	if a.ManifestPath != "" {
		if err := errors.ValidateManifestPath(a.ManifestPath); err != nil {
			return err
		}
	}
	for _, p := range append(append([]string(nil), a.Packages...), a.Exclude...) {
		if err := errors.ValidatePackageName(p); err != nil {
			return err
		}
	}
	for _, f := range a.Features {
		if err := errors.ValidateFeatureName(f); err != nil {
			return err
		}
	}

	conflicts := []struct {
		a, b   bool
		fa, fb string
	}{
		{a.Workspace, len(a.Packages) > 0, "--workspace", "--package"},
		{a.EachFeature, a.FeaturePowerset, "--each-feature", "--feature-powerset"},
		{a.NoDevDeps, a.RemoveDevDeps, "--no-dev-deps", "--remove-dev-deps"},
	}
	for _, c := range conflicts {
		if c.a && c.b {
			return errors.New(errors.ErrCodeInvalidArgument, "%s may not be used together with %s", c.fa, c.fb)
		}
	}

	requires := []struct {
		set      bool
		ok       bool
		flag     string
		required string
	}{
		{len(a.Exclude) > 0, a.Workspace, "--exclude", "--workspace"},
		{a.Depth != 0, a.FeaturePowerset, "--depth", "--feature-powerset"},
		{a.OptionalDeps, a.IteratesFeatures(), "--optional-deps", "--each-feature or --feature-powerset"},
		{a.IncludeDepsFeatures, a.IteratesFeatures(), "--include-deps-features", "--each-feature or --feature-powerset"},
	}
	for _, r := range requires {
		if r.set && !r.ok {
			return errors.New(errors.ErrCodeInvalidArgument, "%s can only be used together with %s", r.flag, r.required)
		}
	}
	if a.Depth < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "--depth must be a positive number, found %d", a.Depth)
	}

	// Dependency kinds are what separates normal edges from build and dev
	// edges; without them no dependency features can be derived.
	if a.IncludeDepsFeatures && level < metadata.DepKindsLevel {
		return errors.New(errors.ErrCodeUnsupportedFlag, "--include-deps-features requires cargo 1.%d or later", metadata.DepKindsLevel)
	}

	return nil
}

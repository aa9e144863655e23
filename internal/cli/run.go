package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/featurehack/pkg/cargo"
	"github.com/matzehuels/featurehack/pkg/errors"
	"github.com/matzehuels/featurehack/pkg/metadata"
	"github.com/matzehuels/featurehack/pkg/observability"
	"github.com/matzehuels/featurehack/pkg/session"
)

// step is one cargo invocation of the run.
type step struct {
	pkg   *metadata.Package
	combo combination
}

// execute drives cargo for every selected package and combination.
func execute(ctx context.Context, sess *session.Context, w io.Writer) error {
	logger := loggerFromContext(ctx)
	a := sess.Args()

	ids, err := selectPackages(sess, w)
	if err != nil {
		return err
	}

	if a.RemoveDevDeps {
		for _, id := range ids {
			if err := sess.Manifest(id).RemoveDevDeps(); err != nil {
				return err
			}
			logger.Info("removed dev-dependencies", "package", sess.Package(id).Name)
		}
		return nil
	}

	if a.NoDevDeps {
		restore, err := removeDevDeps(sess)
		defer func() {
			if err := restore(); err != nil {
				logger.Error("failed to restore manifest", "err", err)
			}
		}()
		if err != nil {
			return err
		}
	}

	var steps []step
	for _, id := range ids {
		for _, combo := range combinations(sess, id) {
			steps = append(steps, step{pkg: sess.Package(id), combo: combo})
		}
	}
	logger.Debug("planned run", "packages", len(ids), "invocations", len(steps))

	prog := newProgress(logger)
	for i, s := range steps {
		p := command(sess, s)
		cmd := p.String()
		printRunning(w, cmd, packageLabel(s.pkg), i+1, len(steps))

		start := time.Now()
		observability.Run().OnInvocationStart(ctx, s.pkg.Name, cmd)
		err := p.Run(ctx)
		observability.Run().OnInvocationComplete(ctx, s.pkg.Name, cmd, time.Since(start), err)
		if err != nil {
			return err
		}
	}
	printSummary(w, len(steps), len(ids))
	prog.done("finished")
	return nil
}

// command builds the cargo invocation for one step.
func command(sess *session.Context, s step) *cargo.Process {
	a := sess.Args()
	p := sess.Process().Arg(a.Subcommand).Args(a.Leading...)
	if s.combo.noDefault {
		p.Arg("--no-default-features")
	}
	if s.combo.all {
		p.Arg("--all-features")
	}
	p.Features(a.Features...).Features(s.combo.features...)
	p.ManifestPath(s.pkg.ManifestPath)
	if len(a.Trailing) > 0 {
		p.Trailing(a.Trailing...)
	}
	return p
}

// selectPackages resolves --package, --workspace and --exclude to workspace
// members, then drops private packages under --ignore-private.
func selectPackages(sess *session.Context, w io.Writer) ([]metadata.PackageID, error) {
	a := sess.Args()
	var ids []metadata.PackageID

	current, hasCurrent := sess.CurrentPackage()
	switch {
	case len(a.Packages) > 0:
		for _, spec := range a.Packages {
			name := packageName(spec)
			found := false
			for id := range sess.WorkspaceMembers() {
				if sess.Package(id).Name == name {
					found = true
					if !slices.Contains(ids, id) {
						ids = append(ids, id)
					}
				}
			}
			if !found {
				return nil, errors.New(errors.ErrCodePackageNotFound, "package ID specification `%s` did not match any packages", spec)
			}
		}
	case hasCurrent && !a.Workspace:
		ids = append(ids, current)
	default:
		seen := make(map[string]bool, len(a.Exclude))
		for id := range sess.WorkspaceMembers() {
			name := sess.Package(id).Name
			if slices.ContainsFunc(a.Exclude, func(e string) bool { return packageName(e) == name }) {
				seen[name] = true
				continue
			}
			ids = append(ids, id)
		}
		var missing []string
		for _, e := range a.Exclude {
			if !seen[packageName(e)] {
				missing = append(missing, e)
			}
		}
		if len(missing) > 0 {
			printWarning(w, fmt.Sprintf("excluded package(s) `%s` not found in workspace", strings.Join(missing, "`, `")))
		}
	}

	if a.IgnorePrivate {
		var private []string
		ids = slices.DeleteFunc(ids, func(id metadata.PackageID) bool {
			if sess.IsPrivate(id) {
				private = append(private, sess.Package(id).Name)
				return true
			}
			return false
		})
		printSkipped(w, "private package(s)", private)
	}
	return ids, nil
}

// removeDevDeps strips dev-dependencies from every workspace member, since
// cargo resolves the whole workspace. The returned func restores whatever was
// changed and is safe to call even when removal failed part way.
func removeDevDeps(sess *session.Context) (func() error, error) {
	var changed []metadata.PackageID
	restore := func() error {
		var first error
		for _, id := range changed {
			if err := sess.Manifest(id).Restore(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
	for id := range sess.WorkspaceMembers() {
		if err := sess.Manifest(id).RemoveDevDeps(); err != nil {
			return restore, err
		}
		changed = append(changed, id)
	}
	return restore, nil
}

// packageLabel renders a package as cargo does in its progress output.
func packageLabel(pkg *metadata.Package) string {
	if pkg.Version == "" {
		return pkg.Name
	}
	return pkg.Name + " v" + pkg.Version
}

// packageName strips the version from a package id spec ("foo@1.0", "foo:1.0").
func packageName(spec string) string {
	if i := strings.IndexAny(spec, "@:"); i >= 0 {
		return spec[:i]
	}
	return spec
}

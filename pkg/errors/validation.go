package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName validates a package spec passed via --package or --exclude.
//
// The rules follow crates.io naming: an ASCII letter followed by letters,
// digits, '-' or '_'. An optional "@version" or ":version" suffix, as accepted
// by cargo's package id specs, is allowed.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	base := name
	if i := strings.IndexAny(base, "@:"); i >= 0 {
		base = base[:i]
	}
	if !cratesPackageNameRegex.MatchString(base) {
		return New(ErrCodeInvalidPackage, "invalid package name: %q", name)
	}

	return nil
}

// cratesPackageNameRegex matches valid crates.io package names.
var cratesPackageNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// featureNameRegex matches a feature name, optionally qualified as "dep/feature"
// or "dep?/feature".
var featureNameRegex = regexp.MustCompile(`^([a-zA-Z0-9_][a-zA-Z0-9_-]*\??/)?[a-zA-Z0-9_][a-zA-Z0-9_+.-]*$`)

// ValidateFeatureName validates a feature name given on the command line.
func ValidateFeatureName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFeature, "feature name cannot be empty")
	}

	if strings.HasPrefix(name, "dep:") {
		return New(ErrCodeInvalidFeature, "%q is an optional dependency reference, not a feature", name)
	}

	if !featureNameRegex.MatchString(name) {
		return New(ErrCodeInvalidFeature, "invalid feature name: %q", name)
	}

	return nil
}

// ValidateManifestPath validates the value of --manifest-path.
// Cargo only accepts paths to files named Cargo.toml.
func ValidateManifestPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidManifest, "manifest path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidManifest, "manifest path contains invalid characters")
		}
	}

	base := path
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if base != "Cargo.toml" {
		return New(ErrCodeInvalidManifest, "the manifest-path must be a path to a Cargo.toml file: %s", path)
	}

	return nil
}

// Package session assembles the per-invocation state featurehack works from.
//
// A [Context] is built once by [New] and is read-only afterwards. Building it
// resolves the cargo executable, probes its version, parses the command line
// for that version, loads `cargo metadata`, and loads workspace manifests only
// when the command line needs facts that metadata cannot provide:
//
//	cargo path -> version probe -> args -> metadata -> manifests (optional)
//
// A failed version probe is not fatal: it is logged and the capability level
// drops to 0, which disables every version-gated behavior. Any other failure
// aborts construction and no partial Context is returned.
//
// # Dependency features
//
// [Context.DepsFeatures] derives the "dep/feature" flags that forward every
// feature of a package's normal workspace dependencies. Two cases are not
// covered: features of optional dependencies of the dependency, and
// dependencies absent from the resolve graph because they are unpublished.
package session

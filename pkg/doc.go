// Package pkg holds the featurehack libraries.
//
// # Overview
//
// featurehack runs a cargo subcommand across the members of a Cargo
// workspace and their feature combinations. The libraries are layered:
//
//  1. [cargo] - locating cargo, probing its version, building invocations
//  2. [args] - command-line parsing and capability gating
//  3. [metadata] - `cargo metadata` decoding
//  4. [manifest] - Cargo.toml reading and dev-dependency removal
//  5. [session] - the per-run context joining all of the above
//
// Supporting packages: [cache] (version probe cache), [errors] (error
// codes), [observability] (hooks) and [buildinfo].
//
// # Data flow
//
//	cargo --version  ->  capability level
//	         |
//	   argument parsing (gated on level)
//	         |
//	   cargo metadata  ->  packages, resolve graph
//	         |
//	   Cargo.toml files (only when needed)
//	         |
//	   session.Context  ->  harness in internal/cli
package pkg

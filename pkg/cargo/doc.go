// Package cargo wraps the cargo executable that featurehack drives.
//
// It covers the three places featurehack touches cargo directly:
//
//   - [Binary] resolves which executable to run, honouring
//     FEATUREHACK_CARGO_SRC and then CARGO before falling back to "cargo".
//   - [ProbeVersion] runs `cargo --version` and reports the minor version,
//     which the rest of featurehack uses as a capability level.
//   - [Process] builds a single cargo invocation and runs it.
//
// # Capability levels
//
// Cargo's stable minor version grows monotonically and gates what
// `cargo metadata` reports. featurehack relies on two thresholds:
//
//	level >= 39  packages[].publish is present in metadata
//	level >= 41  resolve.nodes[].deps[].dep_kinds is present
//
// A probe failure is reported as an error; callers treat it as level 0.
package cargo

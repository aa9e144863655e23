package cargo

import "os"

const (
	// EnvCargoSrc overrides the cargo executable for featurehack only.
	EnvCargoSrc = "FEATUREHACK_CARGO_SRC"
	// EnvCargo is set by cargo itself when running a cargo subcommand.
	EnvCargo = "CARGO"
	// DefaultBinary is used when neither variable is set.
	DefaultBinary = "cargo"
)

// Binary returns the cargo executable to invoke. It never fails.
// A variable that is set but empty still wins, matching how cargo treats CARGO.
func Binary() string {
	return binaryFrom(os.LookupEnv)
}

func binaryFrom(lookup func(string) (string, bool)) string {
	if v, ok := lookup(EnvCargoSrc); ok {
		return v
	}
	if v, ok := lookup(EnvCargo); ok {
		return v
	}
	return DefaultBinary
}

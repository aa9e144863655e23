package cargo

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/featurehack/pkg/cache"
	"github.com/matzehuels/featurehack/pkg/errors"
	"github.com/matzehuels/featurehack/pkg/observability"
)

const probeKeyType = "cargo-version"

// probeTTL bounds how long a probed version is trusted. The cache key already
// changes whenever the binary is replaced, so this only guards against
// rustup proxies whose default toolchain was switched.
const probeTTL = 24 * time.Hour

// Version is the parsed output of `cargo --version`.
type Version struct {
	Major uint64
	Minor uint64
}

// Level returns the capability level used for version gating.
func (v Version) Level() int {
	return int(v.Minor)
}

// ParseVersion parses output such as "cargo 1.75.0 (1d8b05cdd 2023-11-20)"
// or "cargo 1.77.0-nightly (7bb7b5395 2024-01-20)".
func ParseVersion(output string) (Version, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) < 2 || fields[0] != "cargo" {
		return Version{}, errors.New(errors.ErrCodeVersionProbe, "unexpected output from `cargo --version`: %q", output)
	}

	v, err := semver.StrictNewVersion(fields[1])
	if err != nil {
		return Version{}, errors.Wrap(errors.ErrCodeVersionProbe, err, "unexpected version from `cargo --version`: %q", fields[1])
	}
	if v.Major() != 1 {
		return Version{}, errors.New(errors.ErrCodeVersionProbe, "unsupported cargo major version: %s", v)
	}

	return Version{
		Major: v.Major(),
		Minor: v.Minor(),
	}, nil
}

// ProbeVersion runs `<cargo> --version` and parses the result. When c is
// non-nil the parsed minor version is cached per resolved binary.
func ProbeVersion(ctx context.Context, cargo string, c cache.Cache) (Version, error) {
	key, cacheable := probeKey(cargo)
	if cacheable && c != nil {
		if data, ok, err := c.Get(ctx, key); err == nil && ok {
			if v, err := ParseVersion(string(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, probeKeyType)
				return v, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, probeKeyType)
	}

	out, err := NewProcess(cargo).Arg("--version").Output(ctx)
	if err != nil {
		return Version{}, errors.Wrap(errors.ErrCodeVersionProbe, err, "failed to get cargo version")
	}

	v, err := ParseVersion(string(out))
	if err != nil {
		return Version{}, err
	}

	if cacheable && c != nil {
		if err := c.Set(ctx, key, out, probeTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, probeKeyType, len(out))
		}
	}
	return v, nil
}

// probeKey identifies a cargo binary by its resolved path, size and mtime.
func probeKey(cargo string) (string, bool) {
	path, err := exec.LookPath(cargo)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	return cache.Key(probeKeyType, path, strconv.FormatInt(info.Size(), 10), info.ModTime().UnixNano()), true
}

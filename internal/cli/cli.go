// Package cli implements the featurehack command-line interface.
//
// featurehack runs a cargo subcommand on every selected workspace member,
// optionally once per feature or feature combination. All flags are parsed
// by package args; cobra only provides the entry point, version output and
// signal-aware context.
//
// # Logging
//
// --verbose (-v) switches the charmbracelet/log logger to debug level and
// shows the manifest path of every cargo invocation. Loggers are passed
// through context.Context.
//
// # Example
//
//	cargo featurehack check --workspace --each-feature --no-dev-deps
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/featurehack/pkg/cache"
)

const (
	// appName is the application name used for directories and display.
	appName = "featurehack"

	// envNoCache disables the cargo version cache when set to any value.
	envNoCache = "FEATUREHACK_NO_CACHE"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for the command.
type CLI struct {
	Logger *log.Logger
	// Out receives progress lines; cargo's own output goes to stdout/stderr.
	Out io.Writer
}

// New creates a new CLI instance writing logs and progress to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

func newCache() cache.Cache {
	if _, ok := os.LookupEnv(envNoCache); ok {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}

// cacheDir returns the cache directory using XDG standard (~/.cache/featurehack/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

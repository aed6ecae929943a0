// Package testenv provides isolated test environments with temp directories
// and environment variable overrides. It creates a cache directory and sets
// BUILDPLAN_CACHE_DIR (restored on test cleanup). Every other BUILDPLAN_
// variable is cleared so the caller's shell cannot leak into a test.
//
// Usage:
//
//	// Isolated dirs:
//	env := testenv.New(t)
//	env.Dirs.Base  // temp root
//	env.Dirs.Cache // cache dir (BUILDPLAN_CACHE_DIR)
//
//	// With config:
//	env := testenv.New(t, testenv.WithConfig(yamlString))
//	env.Config     // *config.FileConfig
//	env.ConfigPath // the same YAML written to disk, for --config
package testenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adeokamate/smart-sytem/internal/config"
)

// IsolatedDirs holds the directory paths created for the test.
type IsolatedDirs struct {
	Base  string // temp root (parent of all dirs)
	Cache string
}

// Env is a unified test environment with isolated directories and optional
// parsed config.
type Env struct {
	Dirs       IsolatedDirs
	Config     *config.FileConfig
	ConfigPath string
}

// Option configures an Env during construction.
type Option func(t *testing.T, e *Env)

var overridable = []string{
	"BUILDPLAN_CONFIG",
	"BUILDPLAN_MANIFEST",
	"BUILDPLAN_SDK_PROPERTIES",
	"BUILDPLAN_SIGNING",
	"BUILDPLAN_GOOGLE_SERVICES",
	"BUILDPLAN_OUTPUT",
	"BUILDPLAN_LOG_FORMAT",
	"BUILDPLAN_DEBUG_KEYSTORE",
	"BUILDPLAN_DEBUG",
	"BUILDPLAN_DANGEROUS_INLINE",
}

// WithConfig parses yaml into Env.Config and writes it to
// <base>/buildplan.config.yaml.
func WithConfig(yaml string) Option {
	return func(t *testing.T, e *Env) {
		t.Helper()
		cfg, err := config.FromString(yaml)
		if err != nil {
			t.Fatalf("testenv: creating config: %v", err)
		}
		path := filepath.Join(e.Dirs.Base, "buildplan.config.yaml")
		if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
			t.Fatalf("testenv: writing config: %v", err)
		}
		e.Config = &cfg
		e.ConfigPath = path
	}
}

// New creates an isolated test environment. It:
//  1. Creates a temp directory with a cache subdirectory
//  2. Sets BUILDPLAN_CACHE_DIR and clears the other BUILDPLAN_ variables
//  3. Applies any options (e.g. WithConfig)
func New(t *testing.T, opts ...Option) *Env {
	t.Helper()

	// Resolve symlinks on the base temp dir so paths match os.Getwd()
	// after chdir (macOS: /var → /private/var).
	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("testenv: resolving temp dir symlinks: %v", err)
	}

	dirs := IsolatedDirs{
		Base:  base,
		Cache: filepath.Join(base, "cache"),
	}

	if err := os.MkdirAll(dirs.Cache, 0o755); err != nil {
		t.Fatalf("testenv: creating dir %s: %v", dirs.Cache, err)
	}

	t.Setenv("BUILDPLAN_CACHE_DIR", dirs.Cache)
	t.Setenv("BUILDPLAN_NO_UPDATE_CHECK", "1")
	for _, name := range overridable {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	env := &Env{Dirs: dirs}

	for _, opt := range opts {
		opt(t, env)
	}

	return env
}

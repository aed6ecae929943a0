package harness

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adeokamate/smart-sytem/internal/cmd"
	"github.com/adeokamate/smart-sytem/internal/testenv"
)

// Harness provides an isolated filesystem environment for integration tests
// and runs the buildplan command tree in-process.
type Harness struct {
	T *testing.T
	// Stdin is fed to confirmation prompts.
	Stdin string
}

// RunResult holds the outcome of a CLI command execution.
type RunResult struct {
	ExitCode int
	Err      error
	Stdout   string
	Stderr   string
}

// SetupResult holds the resolved paths from NewIsolatedFS.
type SetupResult struct {
	BaseDir    string
	ProjectDir string
	HomeDir    string
	CacheDir   string
}

// FSOptions allows overriding the project directory name.
type FSOptions struct {
	ProjectDir string // subdirectory name under base (default: "testproject")
}

// NewIsolatedFS creates an isolated test environment.
//
// Delegates cache and env setup to testenv.New, points HOME at a temp dir so
// the debug keystore path is stable, then chdirs into a project directory
// (restored on cleanup).
func (h *Harness) NewIsolatedFS(opts *FSOptions) *SetupResult {
	h.T.Helper()

	if opts == nil {
		opts = &FSOptions{}
	}
	if opts.ProjectDir == "" {
		opts.ProjectDir = "testproject"
	}

	env := testenv.New(h.T)

	homeDir := filepath.Join(env.Dirs.Base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		h.T.Fatalf("harness: creating dir %s: %v", homeDir, err)
	}
	h.T.Setenv("HOME", homeDir)

	projectDir := filepath.Join(env.Dirs.Base, opts.ProjectDir)
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		h.T.Fatalf("harness: creating project dir %s: %v", projectDir, err)
	}

	prevDir, err := os.Getwd()
	if err != nil {
		h.T.Fatalf("harness: getting cwd: %v", err)
	}
	if err := os.Chdir(projectDir); err != nil {
		h.T.Fatalf("harness: chdir to project dir: %v", err)
	}
	h.T.Cleanup(func() {
		_ = os.Chdir(prevDir)
	})

	return &SetupResult{
		BaseDir:    env.Dirs.Base,
		ProjectDir: projectDir,
		HomeDir:    homeDir,
		CacheDir:   env.Dirs.Cache,
	}
}

// WriteFile writes content to a path relative to the project directory.
func (r *SetupResult) WriteFile(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(r.ProjectDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("harness: creating dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("harness: writing %s: %v", rel, err)
	}
	return path
}

type exitCoder interface {
	ExitCode() int
}

// Run executes a CLI command through the full cmd.NewRootCmd Cobra pipeline.
// ExitCode follows main: errors carrying an exit code keep it, others are 1.
func (h *Harness) Run(args ...string) *RunResult {
	h.T.Helper()

	rootCmd := cmd.NewRootCmd("test", "test")

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(h.Stdin))

	err := rootCmd.Execute()

	exitCode := 0
	if err != nil {
		exitCode = 1
		var coded exitCoder
		if errors.As(err, &coded) {
			exitCode = coded.ExitCode()
		}
	}

	return &RunResult{ExitCode: exitCode, Err: err, Stdout: stdout.String(), Stderr: stderr.String()}
}

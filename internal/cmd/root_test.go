package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeokamate/smart-sytem/internal/config"
	"github.com/adeokamate/smart-sytem/internal/testenv"
)

// subcommand builds a fresh tree and returns the named command with args
// parsed, so Changed() reports what the user passed.
func subcommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	root := NewRootCmd("test", "test")
	c, rest, err := root.Find(args)
	require.NoError(t, err)
	require.NoError(t, c.ParseFlags(rest))
	return c
}

func TestMergedOptionsDefaults(t *testing.T) {
	env := testenv.New(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(env.Dirs.Base))
	t.Setenv("PWD", env.Dirs.Base)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	opts, err := mergedOptions(subcommand(t, "resolve"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(env.Dirs.Base, "buildplan.yaml"), opts.ManifestPath)
	assert.Equal(t, filepath.Join(env.Dirs.Base, "build", "buildplan"), opts.OutputDir)
	assert.True(t, opts.DebugKeystore)
	assert.False(t, opts.Debug)
	assert.Equal(t, "text", opts.LogFormat)
}

func TestMergedOptionsPrecedence(t *testing.T) {
	env := testenv.New(t, testenv.WithConfig(`manifest: ./from-config.yaml
output: ./config-out
sdk_properties: ./local.properties
debug_keystore: false
debug: true
log_format: json
`))

	opts, err := mergedOptions(subcommand(t, "resolve", "--config", env.ConfigPath))
	require.NoError(t, err)
	assert.Equal(t, "./from-config.yaml", opts.ManifestPath)
	assert.Equal(t, "./config-out", opts.OutputDir)
	assert.Equal(t, "./local.properties", opts.SDKProperties)
	assert.False(t, opts.DebugKeystore)
	assert.True(t, opts.Debug)
	assert.Equal(t, "json", opts.LogFormat)

	t.Setenv("BUILDPLAN_OUTPUT", " ./env-out ")
	t.Setenv("BUILDPLAN_DEBUG_KEYSTORE", "true")
	opts, err = mergedOptions(subcommand(t, "resolve", "--config", env.ConfigPath))
	require.NoError(t, err)
	assert.Equal(t, "./env-out", opts.OutputDir)
	assert.True(t, opts.DebugKeystore)

	opts, err = mergedOptions(subcommand(t, "resolve", "--config", env.ConfigPath, "-o", "./flag-out", "--debug-keystore=false", "--log-format", "TEXT"))
	require.NoError(t, err)
	assert.Equal(t, "./flag-out", opts.OutputDir)
	assert.False(t, opts.DebugKeystore)
	assert.Equal(t, "text", opts.LogFormat)
}

func TestMergedOptionsConfigFromEnv(t *testing.T) {
	env := testenv.New(t, testenv.WithConfig("output: ./env-config-out\n"))
	t.Setenv("BUILDPLAN_CONFIG", env.ConfigPath)

	opts, err := mergedOptions(subcommand(t, "resolve"))
	require.NoError(t, err)
	assert.Equal(t, "./env-config-out", opts.OutputDir)
}

func TestMergedOptionsBadBoolEnv(t *testing.T) {
	testenv.New(t)
	t.Setenv("BUILDPLAN_DEBUG", "sometimes")

	_, err := mergedOptions(subcommand(t, "resolve"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BUILDPLAN_DEBUG")
}

func TestSetupLoggingRejectsUnknownFormat(t *testing.T) {
	c := subcommand(t, "validate")
	require.Error(t, setupLogging(c, runtimeOptions{LogFormat: "xml"}))
	require.NoError(t, setupLogging(c, runtimeOptions{LogFormat: "json"}))
	require.NoError(t, setupLogging(c, runtimeOptions{LogFormat: "text"}))
}

func TestConfirmWrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "plan.json")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0o644))

	c := &cobra.Command{}
	var stderr bytes.Buffer
	c.SetErr(&stderr)

	require.NoError(t, confirmWrite(c, false, filepath.Join(dir, "missing.json")))
	require.NoError(t, confirmWrite(c, true, existing))

	c.SetIn(strings.NewReader("yes\n"))
	require.NoError(t, confirmWrite(c, false, existing))
	assert.Contains(t, stderr.String(), "will overwrite")

	c.SetIn(strings.NewReader("n\n"))
	require.Error(t, confirmWrite(c, false, existing))

	c.SetIn(strings.NewReader(""))
	err := confirmWrite(c, false, existing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--dangerous-inline")

	require.Error(t, confirmWrite(c, false, dir), "directories are never overwritten")
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "buildplan version 1.2.3 (2026-10-18)\n", formatVersion("v1.2.3", "2026-10-18"))
	assert.Equal(t, "buildplan version DEV\n", formatVersion(" ", ""))
}

func TestConfigShow(t *testing.T) {
	env := testenv.New(t, testenv.WithConfig("output: ./config-out\nlog_format: json\n"))
	t.Setenv("BUILDPLAN_SIGNING", "./signing.yaml")

	root := NewRootCmd("test", "test")
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"config", "show", "--config", env.ConfigPath, "--debug-keystore=false"})
	require.NoError(t, root.Execute())

	shown, err := config.FromString(stdout.String())
	require.NoError(t, err)
	assert.Equal(t, "./config-out", shown.Output)
	assert.Equal(t, "./signing.yaml", shown.Signing)
	assert.Equal(t, "json", shown.LogFormat)
	require.NotNil(t, shown.DebugKeystore)
	assert.False(t, *shown.DebugKeystore)
}

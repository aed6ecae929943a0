package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplateParses(t *testing.T) {
	cfg, err := FromString(DefaultTemplate())
	require.NoError(t, err)

	assert.Equal(t, "./buildplan.yaml", cfg.Manifest)
	assert.Equal(t, "./android/local.properties", cfg.SDKProperties)
	assert.Empty(t, cfg.Signing)
	assert.Equal(t, "text", cfg.LogFormat)
	require.NotNil(t, cfg.DebugKeystore)
	assert.True(t, *cfg.DebugKeystore)
	require.NotNil(t, cfg.Debug)
	assert.False(t, *cfg.Debug)
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, cfg)

	path := filepath.Join(t.TempDir(), "buildplan.config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: ./out\nlog_format: json\n"), 0o644))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./out", cfg.Output)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Nil(t, cfg.Debug, "unset booleans stay nil so defaults apply")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = FromString("output: [")
	require.Error(t, err)
}

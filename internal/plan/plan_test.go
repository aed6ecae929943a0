package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeokamate/smart-sytem/internal/manifest"
	"github.com/adeokamate/smart-sytem/internal/signing"
)

func samplePlan() *Plan {
	return &Plan{
		Namespace:     "com.example.smart_system",
		ApplicationID: "com.example.smart_system",
		Plugins: []Plugin{
			{ID: "com.android.application", Kind: manifest.PluginAndroidApplication},
			{ID: "dev.flutter.flutter-gradle-plugin", Kind: manifest.PluginFlutter},
		},
		SDK:     SDK{Compile: 34, Min: 19, Target: 34},
		Version: Version{Code: 1, Name: "1.0.0"},
		Variants: []Variant{
			{Name: "release", Signing: &signing.Identity{Name: "debug", StoreFile: "/home/dev/.android/debug.keystore", KeyAlias: "androiddebugkey"}},
		},
		Dependencies: []Dependency{
			{Group: "com.google.firebase", Artifact: "firebase-auth", Version: "22.3.1", Scope: "implementation"},
		},
	}
}

func TestSealIsDeterministic(t *testing.T) {
	a := samplePlan()
	b := samplePlan()
	require.NoError(t, Seal(a))
	require.NoError(t, Seal(b))

	assert.Equal(t, a.ID, b.ID)
	parsed, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())

	// resealing ignores the previous id
	require.NoError(t, Seal(a))
	assert.Equal(t, b.ID, a.ID)

	b.SDK.Min = 21
	require.NoError(t, Seal(b))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestEncodeIsStable(t *testing.T) {
	p := samplePlan()
	require.NoError(t, Seal(p))

	first, err := Encode(p)
	require.NoError(t, err)
	second, err := Encode(p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, string(first), `"namespace": "com.example.smart_system"`)
	assert.NotContains(t, string(first), "Password\"", "passwords are never part of a plan")
}

func TestWriteRead(t *testing.T) {
	p := samplePlan()
	require.NoError(t, Seal(p))

	path := filepath.Join(t.TempDir(), "out", "plan.json")
	require.NoError(t, Write(path, p))

	loaded, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
	assert.True(t, loaded.HasPlugin(manifest.PluginFlutter))
	assert.False(t, loaded.HasPlugin(manifest.PluginGoogleServices))
	assert.Equal(t, "com.google.firebase:firebase-auth:22.3.1", loaded.Dependencies[0].Coordinate())
}

func TestReadRejectsUnsealed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"namespace": "com.example.app"}`), 0o644))

	_, err := Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id")
}

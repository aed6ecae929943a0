package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `plugins:
  - id: com.android.application
  - id: kotlin-android
  - id: com.google.gms.google-services
  - id: dev.flutter.flutter-gradle-plugin
namespace: com.example.smart_system
applicationId: com.example.smart_system
sdk:
  compile: flutter.compileSdkVersion
  min: 19
  target: ${flutter.targetSdkVersion}
ndkVersion: ${flutter.ndkVersion}
version:
  code: flutter.versionCode
  name: ${flutter.versionName}
java:
  sourceCompatibility: "11"
  targetCompatibility: "11"
  jvmTarget: "11"
variants:
  - name: release
    signingConfig: debug
dependencies:
  - group: com.google.firebase
    artifact: firebase-auth
    version: 22.3.1
    scope: implementation
flutter:
  source: ../..
`

func TestParseYAML(t *testing.T) {
	m, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	require.Len(t, m.Plugins, 4)
	assert.Equal(t, "dev.flutter.flutter-gradle-plugin", m.Plugins[3].ID)
	assert.Equal(t, "com.example.smart_system", m.Namespace)

	assert.Equal(t, Symbol("flutter.compileSdkVersion"), m.SDK.Compile)
	assert.Equal(t, Literal(19), m.SDK.Min)
	assert.Equal(t, Symbol("flutter.targetSdkVersion"), m.SDK.Target)
	assert.Equal(t, Text{Symbol: "flutter.ndkVersion"}, m.NDKVersion)
	assert.Equal(t, Symbol("flutter.versionCode"), m.Version.Code)
	assert.Equal(t, Text{Symbol: "flutter.versionName"}, m.Version.Name)

	require.Len(t, m.Variants, 1)
	assert.Equal(t, "debug", m.Variants[0].SigningConfig)

	require.Len(t, m.Dependencies, 1)
	assert.Equal(t, "com.google.firebase:firebase-auth:22.3.1", m.Dependencies[0].Coordinate())
	assert.Equal(t, "../..", m.Flutter.Source)
	assert.True(t, m.HasPlugin(PluginGoogleServices))
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("namespace: com.example.app\ncompileSdk: 34\n"), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compileSdk")
}

func TestParseRejectsBadValue(t *testing.T) {
	_, err := Parse([]byte("sdk:\n  min: \"not a symbol!\"\n"), FormatYAML)
	require.Error(t, err)
}

func TestParseJSON(t *testing.T) {
	raw := `{
  "plugins": [{"id": "com.android.application"}],
  "namespace": "com.example.app",
  "sdk": {"compile": 34, "min": "21", "target": "flutter.targetSdkVersion"},
  "version": {"code": 3, "name": "1.2.0"}
}`
	m, err := Parse([]byte(raw), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, Literal(34), m.SDK.Compile)
	assert.Equal(t, Literal(21), m.SDK.Min)
	assert.Equal(t, Symbol("flutter.targetSdkVersion"), m.SDK.Target)
	assert.Equal(t, Text{Literal: "1.2.0"}, m.Version.Name)
}

func TestWriteLoadRoundTrip(t *testing.T) {
	m, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "manifest.yaml")
	require.NoError(t, Write(path, m))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "compile: flutter.compileSdkVersion")
	assert.Contains(t, string(raw), "min: 19")
}

func TestValueJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}{Literal(19), Symbol("flutter.minSdkVersion")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 19, "b": "flutter.minSdkVersion"}`, string(out))
}

func TestParseText(t *testing.T) {
	assert.Equal(t, Text{Literal: "1.0.0"}, ParseText("1.0.0"))
	assert.Equal(t, Text{Symbol: "flutter.versionName"}, ParseText("${flutter.versionName}"))
	assert.Equal(t, "${flutter.versionName}", ParseText(" ${ flutter.versionName } ").String())
}

func TestParseCoordinate(t *testing.T) {
	dep, err := ParseCoordinate("com.google.firebase:firebase-auth:22.3.1", "implementation")
	require.NoError(t, err)
	assert.Equal(t, DependencyRef{Group: "com.google.firebase", Artifact: "firebase-auth", Version: "22.3.1", Scope: "implementation"}, dep)

	dep, err = ParseCoordinate("com.google.firebase:firebase-analytics", "implementation")
	require.NoError(t, err)
	assert.Empty(t, dep.Version)

	_, err = ParseCoordinate("firebase-auth", "implementation")
	assert.Error(t, err)
}

func TestLookupPluginAliases(t *testing.T) {
	kind, ok := LookupPlugin("org.jetbrains.kotlin.android")
	require.True(t, ok)
	assert.Equal(t, PluginKotlinAndroid, kind)

	_, ok = LookupPlugin("com.example.unknown")
	assert.False(t, ok)
	assert.Contains(t, KnownPlugins(), "kotlin-android")
}

package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflectInlinesTopLevel(t *testing.T) {
	type keystore struct {
		Path  string `json:"path"`
		Alias string `json:"alias"`
	}
	type config struct {
		Keystore keystore `json:"keystore"`
		Strict   bool     `json:"strict"`
	}

	out, err := marshal(reflect(config{}))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Contains(t, string(out), "keystore")
	assert.Contains(t, string(out), "alias")
	assert.Contains(t, string(out), "strict")
	assert.Equal(t, "object", decoded["type"])
	assert.NotContains(t, decoded, "$ref")
}

func TestManifest(t *testing.T) {
	out, err := Manifest()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.Equal(t, ManifestID, decoded["$id"])
	assert.Equal(t, "object", decoded["type"])
	assert.Equal(t, false, decoded["additionalProperties"], "unknown manifest keys are rejected")

	props, ok := decoded["properties"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"plugins", "namespace", "sdk", "version", "variants", "dependencies"} {
		assert.Contains(t, props, key)
	}

	// symbolic values accept either an integer or a reference
	assert.Contains(t, string(out), `"oneOf"`)
	assert.Contains(t, string(out), "dev.flutter.flutter-gradle-plugin")
}

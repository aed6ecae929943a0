package sdkinfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const localProperties = `# generated by flutter
sdk.dir=/opt/android-sdk
flutter.sdk=/opt/flutter
flutter.buildMode=release
flutter.versionName=1.4.2
flutter.versionCode=42
flutter.compileSdkVersion : 35
custom.long=first\
second
`

func TestParseProperties(t *testing.T) {
	props, err := ParseProperties(strings.NewReader(localProperties))
	require.NoError(t, err)

	code, ok := props.Lookup("flutter.versionCode")
	require.True(t, ok)
	assert.Equal(t, 42, code)

	name, ok := props.LookupText("flutter.versionName")
	require.True(t, ok)
	assert.Equal(t, "1.4.2", name)

	compile, ok := props.Lookup("flutter.compileSdkVersion")
	require.True(t, ok)
	assert.Equal(t, 35, compile)

	assert.Equal(t, "firstsecond", props["custom.long"])

	_, ok = props.Lookup("flutter.buildMode")
	assert.False(t, ok, "non-numeric values are not integers")
}

func TestParsePropertiesEscapes(t *testing.T) {
	props, err := ParseProperties(strings.NewReader(`sdk.dir=C:\\Users\\me\\
flutter.versionCode=3
flutter.sdk=C\:/flutter
app.label=caf\u00e9 ${BUILD}
`))
	require.NoError(t, err)

	assert.Equal(t, `C:\Users\me\`, props["sdk.dir"])
	assert.Equal(t, "C:/flutter", props["flutter.sdk"])
	assert.Equal(t, "café ${BUILD}", props["app.label"], "placeholders are kept verbatim")

	code, ok := props.Lookup("flutter.versionCode")
	require.True(t, ok, "an escaped trailing backslash does not continue the line")
	assert.Equal(t, 3, code)
}

func TestParsePropertiesRejectsBadEscape(t *testing.T) {
	_, err := ParseProperties(strings.NewReader("app.label=\\uZZZZ\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unicode")
}

func TestLoadProperties(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.properties")
	require.NoError(t, os.WriteFile(path, []byte(localProperties), 0o644))

	props, err := LoadProperties(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/flutter", props["flutter.sdk"])

	_, err = LoadProperties(filepath.Join(t.TempDir(), "missing.properties"))
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	props := Properties{"flutter.versionCode": "7", "flutter.ndkVersion": "25.2.9519653"}
	chain := Chain{props, nil, Map{"flutter.versionCode": 99}, FlutterDefaults(), APILevels()}

	code, ok := chain.Lookup("flutter.versionCode")
	require.True(t, ok)
	assert.Equal(t, 7, code, "earlier providers win")

	compile, ok := chain.Lookup("flutter.compileSdkVersion")
	require.True(t, ok)
	assert.Equal(t, 34, compile)

	kitkat, ok := chain.Lookup("android.K")
	require.True(t, ok)
	assert.Equal(t, 19, kitkat)

	ndk, ok := chain.LookupText("flutter.ndkVersion")
	require.True(t, ok)
	assert.Equal(t, "25.2.9519653", ndk)

	_, ok = chain.Lookup("flutter.unknown")
	assert.False(t, ok)
	_, ok = chain.LookupText("flutter.unknown")
	assert.False(t, ok)
}

func TestAPILevels(t *testing.T) {
	levels := APILevels()
	assert.Equal(t, 17, levels["android.J-MR1"])
	assert.Equal(t, 34, levels["android.U"])
	_, ok := levels["K"]
	assert.False(t, ok)
}

package signing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndLookup(t *testing.T) {
	r, err := New(Identity{Name: "upload", StoreFile: "/keys/upload.jks", KeyAlias: "upload"})
	require.NoError(t, err)

	id, ok := r.Lookup("upload")
	require.True(t, ok)
	assert.Equal(t, "/keys/upload.jks", id.StoreFile)

	_, ok = r.Lookup(DebugName)
	assert.False(t, ok, "debug is not implicit")
}

func TestNewRejectsInvalid(t *testing.T) {
	_, err := New(Identity{Name: "upload", KeyAlias: "upload"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "StoreFile")

	_, err = New(
		Identity{Name: "upload", StoreFile: "a.jks", KeyAlias: "a"},
		Identity{Name: "upload", StoreFile: "b.jks", KeyAlias: "b"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared twice")
}

func TestWithDebug(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	r.WithDebug("/home/dev")

	id, ok := r.Lookup(DebugName)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/home/dev", ".android", "debug.keystore"), id.StoreFile)
	assert.Equal(t, DebugKeyAlias, id.KeyAlias)

	custom, err := New(Identity{Name: DebugName, StoreFile: "/ci/debug.jks", KeyAlias: "ci"})
	require.NoError(t, err)
	custom.WithDebug("/home/dev")
	id, _ = custom.Lookup(DebugName)
	assert.Equal(t, "/ci/debug.jks", id.StoreFile, "explicit debug identity is kept")
}

func TestNilRegistryLookup(t *testing.T) {
	var r *Registry
	_, ok := r.Lookup("anything")
	assert.False(t, ok)
}

func TestGenerateAndLoadWithFingerprints(t *testing.T) {
	dir := t.TempDir()

	files, err := GenerateCertificate(CertOptions{Dir: filepath.Join(dir, "keys"), Name: "upload", Organization: "Example"})
	require.NoError(t, err)
	assert.True(t, files.Created)

	again, err := GenerateCertificate(CertOptions{Dir: filepath.Join(dir, "keys"), Name: "upload"})
	require.NoError(t, err)
	assert.False(t, again.Created, "existing pair is preserved")

	info, err := os.Stat(files.Key)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	registry := `signing:
  - name: upload
    storeFile: keys/upload.jks
    keyAlias: upload
    storePasswordEnv: UPLOAD_STORE_PASSWORD
    certificate: keys/upload-cert.pem
`
	path := filepath.Join(dir, "signing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(registry), 0o644))

	r, err := Load(path)
	require.NoError(t, err)

	id, ok := r.Lookup("upload")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "keys", "upload.jks"), id.StoreFile)
	assert.Len(t, strings.Split(id.SHA1, ":"), 20)
	assert.Len(t, strings.Split(id.SHA256, ":"), 32)
	assert.Equal(t, []string{"upload"}, r.Names())
}

func TestLoadMissingCertificate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("signing:\n  - name: x\n    storeFile: x.jks\n    keyAlias: x\n    certificate: nope.pem\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestGenerateCertificateRequiresName(t *testing.T) {
	_, err := GenerateCertificate(CertOptions{Dir: t.TempDir()})
	assert.Error(t, err)
}

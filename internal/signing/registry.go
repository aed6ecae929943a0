// Package signing keeps the signing identities a build variant may refer to
// by name. Secrets never live here: identities only name the environment
// variables that hold store and key passwords.
package signing

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DebugName     = "debug"
	DebugKeyAlias = "androiddebugkey"
)

var validate = validator.New()

// Identity is a keystore entry used to sign an artifact.
type Identity struct {
	Name             string `yaml:"name" json:"name" validate:"required"`
	StoreFile        string `yaml:"storeFile" json:"storeFile" validate:"required"`
	KeyAlias         string `yaml:"keyAlias" json:"keyAlias" validate:"required"`
	StorePasswordEnv string `yaml:"storePasswordEnv,omitempty" json:"storePasswordEnv,omitempty"`
	KeyPasswordEnv   string `yaml:"keyPasswordEnv,omitempty" json:"keyPasswordEnv,omitempty"`
	Certificate      string `yaml:"certificate,omitempty" json:"certificate,omitempty"`
	SHA1             string `yaml:"-" json:"sha1,omitempty"`
	SHA256           string `yaml:"-" json:"sha256,omitempty"`
}

// Registry is a read-only name -> Identity table. It is safe for concurrent
// lookups once built.
type Registry struct {
	identities map[string]Identity
}

type fileRegistry struct {
	Signing []Identity `yaml:"signing"`
}

func New(identities ...Identity) (*Registry, error) {
	r := &Registry{identities: make(map[string]Identity, len(identities))}
	for _, id := range identities {
		if err := r.add(id); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(id Identity) error {
	id.Name = strings.TrimSpace(id.Name)
	if err := validate.Struct(id); err != nil {
		return fmt.Errorf("signing identity %q: %w", id.Name, err)
	}
	if _, dup := r.identities[id.Name]; dup {
		return fmt.Errorf("signing identity %q declared twice", id.Name)
	}
	r.identities[id.Name] = id
	return nil
}

// Load reads a YAML registry. Relative storeFile and certificate paths are
// taken relative to the registry file, and certificates are fingerprinted.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing registry: %w", err)
	}

	var file fileRegistry
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse signing registry YAML: %w", err)
	}

	base := filepath.Dir(path)
	r := &Registry{identities: make(map[string]Identity, len(file.Signing))}
	for _, id := range file.Signing {
		if id.StoreFile != "" && !filepath.IsAbs(id.StoreFile) {
			id.StoreFile = filepath.Join(base, id.StoreFile)
		}
		if id.Certificate != "" {
			if !filepath.IsAbs(id.Certificate) {
				id.Certificate = filepath.Join(base, id.Certificate)
			}
			if id.SHA1, id.SHA256, err = Fingerprints(id.Certificate); err != nil {
				return nil, fmt.Errorf("signing identity %q: %w", id.Name, err)
			}
		}
		if err := r.add(id); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// DebugIdentity is the keystore the Android tooling creates on first build.
func DebugIdentity(home string) Identity {
	return Identity{
		Name:             DebugName,
		StoreFile:        filepath.Join(home, ".android", "debug.keystore"),
		KeyAlias:         DebugKeyAlias,
		StorePasswordEnv: "ANDROID_DEBUG_STORE_PASSWORD",
		KeyPasswordEnv:   "ANDROID_DEBUG_KEY_PASSWORD",
	}
}

// WithDebug adds the debug identity unless the registry already defines one.
func (r *Registry) WithDebug(home string) *Registry {
	if _, ok := r.identities[DebugName]; !ok {
		r.identities[DebugName] = DebugIdentity(home)
	}
	return r
}

func (r *Registry) Lookup(name string) (Identity, bool) {
	if r == nil {
		return Identity{}, false
	}
	id, ok := r.identities[name]
	return id, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.identities))
	for name := range r.identities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fingerprints returns the colon separated SHA-1 and SHA-256 digests of the
// first certificate in a PEM file.
func Fingerprints(certPath string) (string, string, error) {
	raw, err := os.ReadFile(certPath)
	if err != nil {
		return "", "", fmt.Errorf("read certificate: %w", err)
	}

	block, _ := pem.Decode(raw)
	if block == nil || block.Type != "CERTIFICATE" {
		return "", "", fmt.Errorf("%s: no PEM certificate found", certPath)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return "", "", fmt.Errorf("parse certificate: %w", err)
	}

	s1 := sha1.Sum(cert.Raw)
	s256 := sha256.Sum256(cert.Raw)
	return colonHex(s1[:]), colonHex(s256[:]), nil
}

func colonHex(sum []byte) string {
	parts := make([]string, len(sum))
	for i, b := range sum {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, ":")
}

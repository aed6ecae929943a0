package signing

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CertOptions controls GenerateCertificate.
type CertOptions struct {
	Dir          string
	Name         string
	CommonName   string
	Organization string
	Validity     time.Duration
	ConfirmWrite func(path string) error
}

// CertFiles are the paths written (or found) by GenerateCertificate.
type CertFiles struct {
	Cert    string
	Key     string
	Created bool
}

// GenerateCertificate creates a self-signed signing certificate and key as
// <name>-cert.pem / <name>-key.pem in opts.Dir. Existing pairs are kept.
func GenerateCertificate(opts CertOptions) (CertFiles, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return CertFiles{}, fmt.Errorf("signing identity name is required")
	}
	if opts.Dir == "" {
		return CertFiles{}, fmt.Errorf("output directory is required")
	}

	files := CertFiles{
		Cert: filepath.Join(opts.Dir, name+"-cert.pem"),
		Key:  filepath.Join(opts.Dir, name+"-key.pem"),
	}
	if fileExists(files.Cert) && fileExists(files.Key) {
		return files, nil
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return CertFiles{}, fmt.Errorf("create key directory: %w", err)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return CertFiles{}, fmt.Errorf("generate signing key: %w", err)
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return CertFiles{}, fmt.Errorf("generate serial number: %w", err)
	}

	commonName := opts.CommonName
	if commonName == "" {
		commonName = name
	}
	validity := opts.Validity
	if validity <= 0 {
		validity = 25 * 365 * 24 * time.Hour
	}

	subject := pkix.Name{CommonName: commonName}
	if opts.Organization != "" {
		subject.Organization = []string{opts.Organization}
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: serialNumber,
		Subject:      subject,
		NotBefore:    now,
		NotAfter:     now.Add(validity),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageCodeSigning},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return CertFiles{}, fmt.Errorf("create signing certificate: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return CertFiles{}, fmt.Errorf("marshal signing key: %w", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	if opts.ConfirmWrite != nil {
		if err := opts.ConfirmWrite(files.Cert); err != nil {
			return CertFiles{}, err
		}
	}
	if err := os.WriteFile(files.Cert, certPEM, 0o644); err != nil {
		return CertFiles{}, fmt.Errorf("write signing cert %q: %w", files.Cert, err)
	}

	if opts.ConfirmWrite != nil {
		if err := opts.ConfirmWrite(files.Key); err != nil {
			return CertFiles{}, err
		}
	}
	if err := os.WriteFile(files.Key, keyPEM, 0o600); err != nil {
		return CertFiles{}, fmt.Errorf("write signing key %q: %w", files.Key, err)
	}

	files.Created = true
	return files, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Package firebase reads the google-services.json the Google Services
// Gradle plugin consumes and checks it against a resolved plan.
package firebase

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

type Services struct {
	ProjectInfo ProjectInfo `json:"project_info"`
	Clients     []Client    `json:"client"`
}

type ProjectInfo struct {
	ProjectNumber string `json:"project_number"`
	ProjectID     string `json:"project_id"`
	StorageBucket string `json:"storage_bucket"`
}

type Client struct {
	ClientInfo   ClientInfo    `json:"client_info"`
	OAuthClients []OAuthClient `json:"oauth_client"`
}

type ClientInfo struct {
	MobileSDKAppID    string            `json:"mobilesdk_app_id"`
	AndroidClientInfo AndroidClientInfo `json:"android_client_info"`
}

type AndroidClientInfo struct {
	PackageName string `json:"package_name"`
}

type OAuthClient struct {
	ClientID    string       `json:"client_id"`
	ClientType  int          `json:"client_type"`
	AndroidInfo *AndroidInfo `json:"android_info,omitempty"`
}

type AndroidInfo struct {
	PackageName     string `json:"package_name"`
	CertificateHash string `json:"certificate_hash"`
}

// MissingClientError means no client in google-services.json is registered
// for the application id being built.
type MissingClientError struct {
	PackageName string
	Known       []string
}

func (e *MissingClientError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("google-services.json has no Android client for %q", e.PackageName)
	}
	return fmt.Sprintf("google-services.json has no Android client for %q (found: %s)", e.PackageName, strings.Join(e.Known, ", "))
}

func Load(path string) (*Services, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read google services config: %w", err)
	}

	var s Services
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse google services JSON: %w", err)
	}
	if s.ProjectInfo.ProjectID == "" {
		return nil, fmt.Errorf("%s: project_info.project_id is missing", path)
	}

	return &s, nil
}

// Client returns the Android client registered for packageName.
func (s *Services) Client(packageName string) (*Client, error) {
	known := make([]string, 0, len(s.Clients))
	for i := range s.Clients {
		name := s.Clients[i].ClientInfo.AndroidClientInfo.PackageName
		if name == packageName {
			return &s.Clients[i], nil
		}
		known = append(known, name)
	}
	sort.Strings(known)
	return nil, &MissingClientError{PackageName: packageName, Known: known}
}

// HasCertificate reports whether an OAuth client of c is bound to the given
// SHA-1 fingerprint. Colons and case are ignored.
func (c *Client) HasCertificate(sha1 string) bool {
	want := normalizeHash(sha1)
	if want == "" {
		return false
	}
	for _, oc := range c.OAuthClients {
		if oc.AndroidInfo != nil && normalizeHash(oc.AndroidInfo.CertificateHash) == want {
			return true
		}
	}
	return false
}

func normalizeHash(h string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), ":", ""))
}

// Package update tells the user when a newer buildplan release exists. The
// check is best-effort and cached so that at most one request is made per
// interval.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	semver "github.com/Masterminds/semver/v3"
)

const (
	DefaultRepo     = "adeokamate/smart-sytem"
	defaultBaseURL  = "https://api.github.com"
	defaultInterval = 12 * time.Hour
)

type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	UpdateAvailable bool
}

type state struct {
	LastChecked   time.Time `json:"last_checked"`
	LatestVersion string    `json:"latest_version"`
	ReleaseURL    string    `json:"release_url"`
}

type githubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker compares the running version against the latest GitHub release.
// Zero fields fall back to defaults.
type Checker struct {
	Repo      string
	StatePath string
	BaseURL   string
	Client    *http.Client
	Interval  time.Duration
}

// Disabled reports whether BUILDPLAN_NO_UPDATE_CHECK turns the check off.
func Disabled() bool {
	value, ok := os.LookupEnv("BUILDPLAN_NO_UPDATE_CHECK")
	if !ok {
		return false
	}
	value = strings.ToLower(strings.TrimSpace(value))
	return value != "" && value != "0" && value != "false"
}

// DefaultStatePath places the cache under BUILDPLAN_CACHE_DIR when set, else
// the user cache directory.
func DefaultStatePath() (string, error) {
	cacheDir := strings.TrimSpace(os.Getenv("BUILDPLAN_CACHE_DIR"))
	if cacheDir == "" {
		userCache, err := os.UserCacheDir()
		if err != nil || strings.TrimSpace(userCache) == "" {
			userCache = ".cache"
		}
		cacheDir = filepath.Join(userCache, "buildplan")
	}

	if mkErr := os.MkdirAll(cacheDir, 0o755); mkErr != nil {
		return "", fmt.Errorf("create update cache directory: %w", mkErr)
	}

	return filepath.Join(cacheDir, "update-state.json"), nil
}

func (c *Checker) Check(ctx context.Context, currentVersion string) (*CheckResult, error) {
	currentVersion = normalizeVersion(currentVersion)
	if currentVersion == "" || strings.EqualFold(currentVersion, "dev") {
		return nil, nil
	}

	current, err := semver.NewVersion(currentVersion)
	if err != nil {
		return nil, nil
	}

	interval := c.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	cached := readState(c.StatePath)
	if cached != nil && time.Since(cached.LastChecked) < interval {
		return cachedResult(current, cached), nil
	}

	release, err := c.fetchLatestRelease(ctx)
	if err != nil {
		if cached != nil {
			return cachedResult(current, cached), nil
		}
		return nil, err
	}

	normalizedLatest := normalizeVersion(release.TagName)
	nextState := state{
		LastChecked:   time.Now().UTC(),
		LatestVersion: normalizedLatest,
		ReleaseURL:    release.HTMLURL,
	}
	_ = writeState(c.StatePath, nextState)

	latest, err := semver.NewVersion(normalizedLatest)
	if err != nil {
		return nil, err
	}
	if !latest.GreaterThan(current) {
		return nil, nil
	}

	return &CheckResult{
		CurrentVersion:  current.Original(),
		LatestVersion:   latest.Original(),
		ReleaseURL:      release.HTMLURL,
		UpdateAvailable: true,
	}, nil
}

func (c *Checker) fetchLatestRelease(ctx context.Context) (*githubRelease, error) {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	repo := strings.TrimSpace(c.Repo)
	if repo == "" {
		repo = DefaultRepo
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	url := fmt.Sprintf("%s/repos/%s/releases/latest", base, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "buildplan-update-check")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("github releases api returned status %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	if strings.TrimSpace(release.TagName) == "" {
		return nil, fmt.Errorf("github release tag is empty")
	}

	return &release, nil
}

func readState(path string) *state {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var s state
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}

	return &s
}

func writeState(path string, s state) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func cachedResult(current *semver.Version, cached *state) *CheckResult {
	latest, err := semver.NewVersion(normalizeVersion(cached.LatestVersion))
	if err != nil {
		return nil
	}
	if !latest.GreaterThan(current) {
		return nil
	}

	return &CheckResult{
		CurrentVersion:  current.Original(),
		LatestVersion:   latest.Original(),
		ReleaseURL:      cached.ReleaseURL,
		UpdateAvailable: true,
	}
}

func normalizeVersion(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "v")
}

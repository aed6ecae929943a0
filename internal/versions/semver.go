package versions

import (
	"fmt"
	"regexp"
	"strings"

	semver "github.com/Masterminds/semver/v3"
)

// Dependency versions look like MAJOR[.MINOR[.PATCH[-PRE][+BUILD]]].
// Gradle dynamic selectors (1.+, latest.release, ranges) are rejected.
var partialSemverPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)(?:\.(0|[1-9][0-9]*)(?:\.(0|[1-9][0-9]*)(?:-([0-9A-Za-z.-]+))?(?:\+([0-9A-Za-z.-]+))?)?)?$`)

// Valid reports whether raw matches the accepted version pattern.
func Valid(raw string) bool {
	return partialSemverPattern.MatchString(strings.TrimSpace(raw))
}

// Parse validates raw and splits it into its parts. Missing minor and patch
// components are reported as zero.
func Parse(raw string) (SemverParts, error) {
	raw = strings.TrimSpace(raw)
	if !partialSemverPattern.MatchString(raw) {
		return SemverParts{}, fmt.Errorf("%q is not a semantic version", raw)
	}

	v, err := semver.NewVersion(raw)
	if err != nil {
		return SemverParts{}, fmt.Errorf("parse version %q: %w", raw, err)
	}

	var pre *string
	if value := v.Prerelease(); value != "" {
		pre = &value
	}

	var build *string
	if value := v.Metadata(); value != "" {
		build = &value
	}

	return SemverParts{
		Major: int(v.Major()),
		Minor: int(v.Minor()),
		Patch: int(v.Patch()),
		Pre:   pre,
		Build: build,
	}, nil
}

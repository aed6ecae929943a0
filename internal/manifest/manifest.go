// Package manifest holds the declarative description of an Android app
// build: plugins, SDK levels, version info, build variants and
// dependencies. Values may still contain symbolic references; the
// resolver turns a Manifest into a concrete plan.
package manifest

import (
	"fmt"
	"strings"
)

type Manifest struct {
	Plugins       []PluginRef           `yaml:"plugins" json:"plugins"`
	Namespace     string                `yaml:"namespace" json:"namespace"`
	ApplicationID string                `yaml:"applicationId,omitempty" json:"applicationId,omitempty"`
	SDK           SdkVersionConstraints `yaml:"sdk" json:"sdk"`
	NDKVersion    Text                  `yaml:"ndkVersion,omitempty" json:"ndkVersion,omitempty"`
	Version       VersionInfo           `yaml:"version" json:"version"`
	Java          JavaOptions           `yaml:"java,omitempty" json:"java,omitempty"`
	Variants      []BuildVariant        `yaml:"variants,omitempty" json:"variants,omitempty"`
	Dependencies  []DependencyRef       `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Flutter       FlutterOptions        `yaml:"flutter,omitempty" json:"flutter,omitempty"`
}

type PluginRef struct {
	ID      string `yaml:"id" json:"id"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

type SdkVersionConstraints struct {
	Compile Value `yaml:"compile" json:"compile"`
	Min     Value `yaml:"min" json:"min"`
	Target  Value `yaml:"target" json:"target"`
}

type VersionInfo struct {
	Code Value `yaml:"code" json:"code"`
	Name Text  `yaml:"name" json:"name"`
}

// JavaOptions mirrors compileOptions and kotlinOptions. Levels are written
// the way Gradle prints them: "1.8", "11", "17".
type JavaOptions struct {
	SourceCompatibility string `yaml:"sourceCompatibility,omitempty" json:"sourceCompatibility,omitempty"`
	TargetCompatibility string `yaml:"targetCompatibility,omitempty" json:"targetCompatibility,omitempty"`
	JvmTarget           string `yaml:"jvmTarget,omitempty" json:"jvmTarget,omitempty"`
}

// BuildVariant is one entry of buildTypes. An empty SigningConfig leaves the
// variant unsigned.
type BuildVariant struct {
	Name          string `yaml:"name" json:"name"`
	SigningConfig string `yaml:"signingConfig,omitempty" json:"signingConfig,omitempty"`
	Minify        bool   `yaml:"minify,omitempty" json:"minify,omitempty"`
	Debuggable    bool   `yaml:"debuggable,omitempty" json:"debuggable,omitempty"`
}

type DependencyRef struct {
	Group    string `yaml:"group" json:"group"`
	Artifact string `yaml:"artifact" json:"artifact"`
	Version  string `yaml:"version,omitempty" json:"version,omitempty"`
	Scope    string `yaml:"scope" json:"scope"`
	// Platform marks a BOM import whose versions apply to versionless
	// dependencies of the same group.
	Platform bool `yaml:"platform,omitempty" json:"platform,omitempty"`
}

// Coordinate renders group:artifact[:version].
func (d DependencyRef) Coordinate() string {
	if d.Version == "" {
		return d.Group + ":" + d.Artifact
	}
	return d.Group + ":" + d.Artifact + ":" + d.Version
}

// ParseCoordinate splits a Gradle "group:artifact[:version]" notation. It
// only checks the shape; well-formedness of each part is left to the
// resolver.
func ParseCoordinate(notation, scope string) (DependencyRef, error) {
	parts := strings.Split(strings.TrimSpace(notation), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return DependencyRef{}, fmt.Errorf("dependency notation %q is not group:artifact[:version]", notation)
	}

	dep := DependencyRef{Group: parts[0], Artifact: parts[1], Scope: scope}
	if len(parts) == 3 {
		dep.Version = parts[2]
	}
	return dep, nil
}

type FlutterOptions struct {
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
}

// HasPlugin reports whether kind is applied, matching aliases too.
func (m Manifest) HasPlugin(kind PluginKind) bool {
	for _, p := range m.Plugins {
		if k, ok := LookupPlugin(p.ID); ok && k == kind {
			return true
		}
	}
	return false
}

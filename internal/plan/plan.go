// Package plan defines the resolved build plan: a fully concrete, validated
// build configuration handed to whatever drives compilation and signing.
//
// A Plan is built once by the resolver and treated as read-only afterwards.
// Nothing in it aliases the manifest it was resolved from.
package plan

import (
	"github.com/adeokamate/smart-sytem/internal/manifest"
	"github.com/adeokamate/smart-sytem/internal/signing"
	"github.com/adeokamate/smart-sytem/internal/versions"
)

type Plan struct {
	ID            string       `json:"id"`
	Namespace     string       `json:"namespace"`
	ApplicationID string       `json:"applicationId"`
	Plugins       []Plugin     `json:"plugins"`
	SDK           SDK          `json:"sdk"`
	NDKVersion    string       `json:"ndkVersion,omitempty"`
	Version       Version      `json:"version"`
	Java          Java         `json:"java"`
	Variants      []Variant    `json:"variants"`
	Dependencies  []Dependency `json:"dependencies"`
	FlutterSource string       `json:"flutterSource,omitempty"`
}

type Plugin struct {
	ID      string              `json:"id"`
	Kind    manifest.PluginKind `json:"kind"`
	Version string              `json:"version,omitempty"`
}

type SDK struct {
	Compile int `json:"compile"`
	Min     int `json:"min"`
	Target  int `json:"target"`
}

type Version struct {
	Code int    `json:"code" validate:"gte=1,lte=2100000000"`
	Name string `json:"name" validate:"required"`
}

type Java struct {
	SourceCompatibility string `json:"sourceCompatibility,omitempty" validate:"omitempty,numeric"`
	TargetCompatibility string `json:"targetCompatibility,omitempty" validate:"omitempty,numeric"`
	JvmTarget           string `json:"jvmTarget,omitempty" validate:"omitempty,numeric"`
}

// Variant is a build type with its signing identity, or nil when unsigned.
type Variant struct {
	Name       string            `json:"name"`
	Signing    *signing.Identity `json:"signing,omitempty"`
	Minify     bool              `json:"minify,omitempty"`
	Debuggable bool              `json:"debuggable,omitempty"`
}

type Dependency struct {
	Group    string                `json:"group"`
	Artifact string                `json:"artifact"`
	Version  string                `json:"version,omitempty"`
	Scope    string                `json:"scope"`
	Platform bool                  `json:"platform,omitempty"`
	Parts    *versions.SemverParts `json:"parts,omitempty"`
}

func (d Dependency) Coordinate() string {
	if d.Version == "" {
		return d.Group + ":" + d.Artifact
	}
	return d.Group + ":" + d.Artifact + ":" + d.Version
}

func (p *Plan) HasPlugin(kind manifest.PluginKind) bool {
	for _, plugin := range p.Plugins {
		if plugin.Kind == kind {
			return true
		}
	}
	return false
}

package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidManifest matches every resolution failure via errors.Is.
var ErrInvalidManifest = errors.New("invalid manifest")

const exitInvalidManifest = 2

// Diagnostic is implemented by all resolution errors. Field is a dotted path
// into the manifest (sdk.min, dependencies[0].group) and Value is the
// offending literal as written.
type Diagnostic interface {
	error
	Field() string
	Value() string
}

type diagnostic struct {
	field string
	value string
}

func (d diagnostic) Field() string { return d.field }

func (d diagnostic) Value() string { return d.value }

func (d diagnostic) Is(target error) bool { return target == ErrInvalidManifest }

func (d diagnostic) ExitCode() int { return exitInvalidManifest }

type InvalidNamespaceError struct {
	diagnostic
}

func (e *InvalidNamespaceError) Error() string {
	if strings.TrimSpace(e.value) == "" {
		return fmt.Sprintf("%s: namespace is required", e.field)
	}
	return fmt.Sprintf("%s: %q is not a reverse-domain package name", e.field, e.value)
}

type DuplicatePluginError struct {
	diagnostic
	// First is the index of the earlier declaration.
	First int
}

func (e *DuplicatePluginError) Error() string {
	return fmt.Sprintf("%s: plugin %q already applied at plugins[%d]", e.field, e.value, e.First)
}

type UnknownPluginError struct {
	diagnostic
}

func (e *UnknownPluginError) Error() string {
	if strings.TrimSpace(e.value) == "" {
		return fmt.Sprintf("%s: plugin id is required", e.field)
	}
	return fmt.Sprintf("%s: unknown plugin %q", e.field, e.value)
}

type UnresolvedSdkReferenceError struct {
	diagnostic
}

func (e *UnresolvedSdkReferenceError) Error() string {
	return fmt.Sprintf("%s: symbolic reference %q has no value", e.field, e.value)
}

// SdkConstraintViolationError reports a breach of min <= target <= compile,
// or a level below 1.
type SdkConstraintViolationError struct {
	diagnostic
	Compile int
	Min     int
	Target  int
}

func (e *SdkConstraintViolationError) Error() string {
	return fmt.Sprintf("%s: %s violates min <= target <= compile (min=%d, target=%d, compile=%d)",
		e.field, e.value, e.Min, e.Target, e.Compile)
}

type UnknownSigningConfigError struct {
	diagnostic
	Variant string
}

func (e *UnknownSigningConfigError) Error() string {
	return fmt.Sprintf("%s: build variant %q references unknown signing config %q", e.field, e.Variant, e.value)
}

type MalformedDependencyCoordinateError struct {
	diagnostic
	Coordinate string
	Reason     string
}

func (e *MalformedDependencyCoordinateError) Error() string {
	return fmt.Sprintf("%s: malformed dependency %q: %s", e.field, e.Coordinate, e.Reason)
}

// InvalidFieldError covers rule violations that have no dedicated kind.
type InvalidFieldError struct {
	diagnostic
	Rule string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s: %q %s", e.field, e.value, e.Rule)
}

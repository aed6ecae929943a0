// Package resolver turns a declarative manifest into a resolved build plan.
//
// Resolution is a single synchronous pass with no shared state: every
// symbolic reference is looked up through the injected capabilities, every
// invariant is checked, and either a complete plan or a typed error comes
// back. Nothing is retained on failure.
package resolver

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/adeokamate/smart-sytem/internal/manifest"
	"github.com/adeokamate/smart-sytem/internal/plan"
	"github.com/adeokamate/smart-sytem/internal/signing"
	"github.com/adeokamate/smart-sytem/internal/versions"
)

// SdkInfoProvider maps symbolic SDK references to integers.
type SdkInfoProvider interface {
	Lookup(symbol string) (int, bool)
}

// TextLookup is an optional capability of an SdkInfoProvider for string
// valued symbols such as flutter.versionName.
type TextLookup interface {
	LookupText(symbol string) (string, bool)
}

// SigningRegistry maps signing-config names to identities.
type SigningRegistry interface {
	Lookup(name string) (signing.Identity, bool)
}

var (
	namespacePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(?:\.[A-Za-z][A-Za-z0-9_]*)+$`)
	coordinatePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Resolve validates m and replaces every symbolic reference with a concrete
// value. sdk and reg are only read.
func Resolve(m manifest.Manifest, sdk SdkInfoProvider, reg SigningRegistry) (*plan.Plan, error) {
	plugins, err := resolvePlugins(m.Plugins)
	if err != nil {
		return nil, err
	}

	namespace := strings.TrimSpace(m.Namespace)
	if !namespacePattern.MatchString(namespace) {
		return nil, &InvalidNamespaceError{diagnostic{field: "namespace", value: m.Namespace}}
	}

	applicationID := strings.TrimSpace(m.ApplicationID)
	if applicationID == "" {
		applicationID = namespace
	} else if !namespacePattern.MatchString(applicationID) {
		return nil, &InvalidNamespaceError{diagnostic{field: "applicationId", value: m.ApplicationID}}
	}

	if err := checkPluginOrder(plugins); err != nil {
		return nil, err
	}

	// 1. symbolic references
	levels, err := resolveSDK(m.SDK, sdk)
	if err != nil {
		return nil, err
	}

	code, err := lookupValue("version.code", m.Version.Code, sdk)
	if err != nil {
		return nil, err
	}
	name, err := lookupText("version.name", m.Version.Name, sdk)
	if err != nil {
		return nil, err
	}
	ndk, err := lookupText("ndkVersion", m.NDKVersion, sdk)
	if err != nil {
		return nil, err
	}

	// 2. min <= target <= compile
	if err := checkSDK(levels); err != nil {
		return nil, err
	}

	// 3. signing configs
	variants, err := resolveVariants(m.Variants, reg)
	if err != nil {
		return nil, err
	}

	// 4. dependency coordinates
	deps, err := resolveDependencies(m.Dependencies, m.Variants)
	if err != nil {
		return nil, err
	}

	version := plan.Version{Code: code, Name: name}
	if err := checkStruct("version", version); err != nil {
		return nil, err
	}
	java := plan.Java{
		SourceCompatibility: strings.TrimSpace(m.Java.SourceCompatibility),
		TargetCompatibility: strings.TrimSpace(m.Java.TargetCompatibility),
		JvmTarget:           strings.TrimSpace(m.Java.JvmTarget),
	}
	if err := checkStruct("java", java); err != nil {
		return nil, err
	}

	// 5. assemble
	p := &plan.Plan{
		Namespace:     namespace,
		ApplicationID: applicationID,
		Plugins:       plugins,
		SDK:           levels,
		NDKVersion:    ndk,
		Version:       version,
		Java:          java,
		Variants:      variants,
		Dependencies:  deps,
		FlutterSource: strings.TrimSpace(m.Flutter.Source),
	}
	if err := plan.Seal(p); err != nil {
		return nil, err
	}

	return p, nil
}

func resolvePlugins(refs []manifest.PluginRef) ([]plan.Plugin, error) {
	seen := make(map[string]int, len(refs))
	for i, ref := range refs {
		id := strings.TrimSpace(ref.ID)
		if id == "" {
			continue
		}
		key := id
		if kind, ok := manifest.LookupPlugin(id); ok {
			key = string(kind)
		}
		if first, dup := seen[key]; dup {
			return nil, &DuplicatePluginError{diagnostic: diagnostic{field: indexed("plugins", i) + ".id", value: ref.ID}, First: first}
		}
		seen[key] = i
	}

	plugins := make([]plan.Plugin, 0, len(refs))
	for i, ref := range refs {
		id := strings.TrimSpace(ref.ID)
		kind, ok := manifest.LookupPlugin(id)
		if !ok {
			return nil, &UnknownPluginError{diagnostic{field: indexed("plugins", i) + ".id", value: ref.ID}}
		}
		version := strings.TrimSpace(ref.Version)
		if version != "" && !versions.Valid(version) {
			return nil, &InvalidFieldError{
				diagnostic: diagnostic{field: indexed("plugins", i) + ".version", value: ref.Version},
				Rule:       "is not a semantic version",
			}
		}
		plugins = append(plugins, plan.Plugin{ID: id, Kind: kind, Version: version})
	}
	return plugins, nil
}

// The Flutter plugin configures the android extension, so the Android
// plugin has to be applied first.
func checkPluginOrder(plugins []plan.Plugin) error {
	flutterAt := -1
	for i, p := range plugins {
		switch p.Kind {
		case manifest.PluginFlutter:
			flutterAt = i
		case manifest.PluginAndroidApplication, manifest.PluginAndroidLibrary:
			if flutterAt >= 0 {
				return &InvalidFieldError{
					diagnostic: diagnostic{field: indexed("plugins", flutterAt) + ".id", value: plugins[flutterAt].ID},
					Rule:       "must be applied after " + p.ID,
				}
			}
		}
	}
	return nil
}

func resolveSDK(c manifest.SdkVersionConstraints, sdk SdkInfoProvider) (plan.SDK, error) {
	compile, err := lookupValue("sdk.compile", c.Compile, sdk)
	if err != nil {
		return plan.SDK{}, err
	}
	minLevel, err := lookupValue("sdk.min", c.Min, sdk)
	if err != nil {
		return plan.SDK{}, err
	}
	target, err := lookupValue("sdk.target", c.Target, sdk)
	if err != nil {
		return plan.SDK{}, err
	}
	return plan.SDK{Compile: compile, Min: minLevel, Target: target}, nil
}

func checkSDK(levels plan.SDK) error {
	violation := func(field string, value int) error {
		return &SdkConstraintViolationError{
			diagnostic: diagnostic{field: field, value: strconv.Itoa(value)},
			Compile:    levels.Compile,
			Min:        levels.Min,
			Target:     levels.Target,
		}
	}

	for _, f := range []struct {
		field string
		value int
	}{{"sdk.min", levels.Min}, {"sdk.target", levels.Target}, {"sdk.compile", levels.Compile}} {
		if f.value < 1 {
			return violation(f.field, f.value)
		}
	}
	if levels.Min > levels.Target {
		return violation("sdk.min", levels.Min)
	}
	if levels.Target > levels.Compile {
		return violation("sdk.target", levels.Target)
	}
	return nil
}

func lookupValue(field string, v manifest.Value, sdk SdkInfoProvider) (int, error) {
	if !v.IsSymbolic() {
		return v.Literal, nil
	}
	if sdk != nil {
		if n, ok := sdk.Lookup(v.Symbol); ok {
			return n, nil
		}
	}
	return 0, &UnresolvedSdkReferenceError{diagnostic{field: field, value: v.Symbol}}
}

func lookupText(field string, t manifest.Text, sdk SdkInfoProvider) (string, error) {
	if !t.IsSymbolic() {
		return t.Literal, nil
	}
	if tl, ok := sdk.(TextLookup); ok {
		if s, ok := tl.LookupText(t.Symbol); ok {
			return s, nil
		}
	}
	return "", &UnresolvedSdkReferenceError{diagnostic{field: field, value: t.Symbol}}
}

func resolveVariants(in []manifest.BuildVariant, reg SigningRegistry) ([]plan.Variant, error) {
	out := make([]plan.Variant, 0, len(in))
	seen := make(map[string]struct{}, len(in))

	for i, v := range in {
		name := strings.TrimSpace(v.Name)
		field := indexed("variants", i)
		if name == "" {
			return nil, &InvalidFieldError{diagnostic: diagnostic{field: field + ".name", value: v.Name}, Rule: "is not a variant name"}
		}
		if _, dup := seen[name]; dup {
			return nil, &InvalidFieldError{diagnostic: diagnostic{field: field + ".name", value: name}, Rule: "is declared twice"}
		}
		seen[name] = struct{}{}

		resolved := plan.Variant{Name: name, Minify: v.Minify, Debuggable: v.Debuggable}
		if ref := strings.TrimSpace(v.SigningConfig); ref != "" {
			var id signing.Identity
			ok := false
			if reg != nil {
				id, ok = reg.Lookup(ref)
			}
			if !ok {
				return nil, &UnknownSigningConfigError{
					diagnostic: diagnostic{field: field + ".signingConfig", value: ref},
					Variant:    name,
				}
			}
			resolved.Signing = &id
		}
		out = append(out, resolved)
	}

	return out, nil
}

var baseScopes = map[string]struct{}{
	"implementation":            {},
	"api":                       {},
	"compileOnly":               {},
	"runtimeOnly":               {},
	"testImplementation":        {},
	"testRuntimeOnly":           {},
	"androidTestImplementation": {},
	"coreLibraryDesugaring":     {},
	"annotationProcessor":       {},
	"kapt":                      {},
	"lintChecks":                {},
}

var variantScopeSuffixes = []string{"Implementation", "Api", "CompileOnly", "RuntimeOnly"}

func knownScopes(variants []manifest.BuildVariant) map[string]struct{} {
	scopes := make(map[string]struct{}, len(baseScopes)+4*len(variants))
	for s := range baseScopes {
		scopes[s] = struct{}{}
	}
	names := []string{"debug", "release"}
	for _, v := range variants {
		names = append(names, strings.TrimSpace(v.Name))
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		for _, suffix := range variantScopeSuffixes {
			scopes[name+suffix] = struct{}{}
		}
	}
	return scopes
}

func resolveDependencies(in []manifest.DependencyRef, variants []manifest.BuildVariant) ([]plan.Dependency, error) {
	scopes := knownScopes(variants)

	boms := make(map[string]struct{})
	for _, d := range in {
		if d.Platform {
			boms[strings.TrimSpace(d.Group)] = struct{}{}
		}
	}

	out := make([]plan.Dependency, 0, len(in))
	seen := make(map[string]int, len(in))

	for i, d := range in {
		field := indexed("dependencies", i)
		dep := plan.Dependency{
			Group:    strings.TrimSpace(d.Group),
			Artifact: strings.TrimSpace(d.Artifact),
			Version:  strings.TrimSpace(d.Version),
			Scope:    strings.TrimSpace(d.Scope),
			Platform: d.Platform,
		}
		malformed := func(part, value, reason string) error {
			return &MalformedDependencyCoordinateError{
				diagnostic: diagnostic{field: field + "." + part, value: value},
				Coordinate: d.Coordinate(),
				Reason:     reason,
			}
		}

		if dep.Group == "" {
			return nil, malformed("group", d.Group, "group is empty")
		}
		if !coordinatePattern.MatchString(dep.Group) {
			return nil, malformed("group", d.Group, "group contains characters outside [A-Za-z0-9_.-]")
		}
		if dep.Artifact == "" {
			return nil, malformed("artifact", d.Artifact, "artifact is empty")
		}
		if !coordinatePattern.MatchString(dep.Artifact) {
			return nil, malformed("artifact", d.Artifact, "artifact contains characters outside [A-Za-z0-9_.-]")
		}

		switch {
		case dep.Version != "":
			parts, err := versions.Parse(dep.Version)
			if err != nil {
				return nil, malformed("version", d.Version, err.Error())
			}
			dep.Parts = &parts
		case dep.Platform:
			return nil, malformed("version", d.Version, "platform imports need a version")
		default:
			if _, ok := boms[dep.Group]; !ok {
				return nil, malformed("version", d.Version, "version is empty and no platform import covers group "+dep.Group)
			}
		}

		if dep.Scope == "" {
			return nil, malformed("scope", d.Scope, "scope is empty")
		}
		if _, ok := scopes[dep.Scope]; !ok {
			return nil, malformed("scope", d.Scope, fmt.Sprintf("unknown configuration %q", dep.Scope))
		}

		key := dep.Scope + " " + dep.Group + ":" + dep.Artifact
		if first, dup := seen[key]; dup {
			return nil, &InvalidFieldError{
				diagnostic: diagnostic{field: field, value: d.Coordinate()},
				Rule:       fmt.Sprintf("is already declared at %s", indexed("dependencies", first)),
			}
		}
		seen[key] = i

		out = append(out, dep)
	}

	return out, nil
}

func checkStruct(prefix string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return fmt.Errorf("validate %s: %w", prefix, err)
	}

	fe := verrs[0]
	rule := "fails " + fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	return &InvalidFieldError{
		diagnostic: diagnostic{field: prefix + "." + fe.Field(), value: fmt.Sprint(fe.Value())},
		Rule:       rule,
	}
}

func indexed(field string, i int) string {
	return field + "[" + strconv.Itoa(i) + "]"
}

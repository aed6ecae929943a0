// Package gradle imports the subset of the Gradle Kotlin DSL that Flutter
// generates for android/app/build.gradle.kts into a manifest.
//
// It is a line-oriented reader, not a Kotlin parser: each statement must sit
// on its own line and blocks open with `name {` and close with `}`.
package gradle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/adeokamate/smart-sytem/internal/manifest"
)

var (
	blockOpenPattern  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\s*\(\s*"([^"]*)"\s*\))?\s*\{$`)
	assignPattern     = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.+)$`)
	pluginPattern     = regexp.MustCompile(`^id\s*\(\s*"([^"]+)"\s*\)(?:\s+version\s*\(?\s*"([^"]+)"\s*\)?)?(?:\s+apply\s*\(?\s*(true|false)\s*\)?)?$`)
	backtickPlugin    = regexp.MustCompile("^`([^`]+)`$")
	dependencyPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\(\s*(platform\s*\(\s*)?"([^"]+)"\s*\)?\s*\)$`)
	signingRefPattern = regexp.MustCompile(`^signingConfigs\.getByName\(\s*"([^"]+)"\s*\)$|^signingConfigs\.([A-Za-z_][A-Za-z0-9_]*)$`)
	javaVersionRef    = regexp.MustCompile(`^JavaVersion\.VERSION_([0-9_]+)(?:\.toString\(\))?$`)
)

// SyntaxError points at the line that could not be understood.
type SyntaxError struct {
	Line int
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Msg, e.Text)
}

func ParseFile(path string) (manifest.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return manifest.Manifest{}, fmt.Errorf("open gradle script: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return manifest.Manifest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

type parser struct {
	m       manifest.Manifest
	stack   []string
	variant int
}

func Parse(r io.Reader) (manifest.Manifest, error) {
	p := &parser{variant: -1}
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}
		if err := p.statement(line); err != nil {
			return manifest.Manifest{}, &SyntaxError{Line: lineNo, Text: line, Msg: err.Error()}
		}
	}
	if err := scanner.Err(); err != nil {
		return manifest.Manifest{}, err
	}
	if len(p.stack) > 0 {
		return manifest.Manifest{}, &SyntaxError{Line: lineNo, Text: strings.Join(p.stack, " > "), Msg: "unclosed block"}
	}

	return p.m, nil
}

func (p *parser) path() string {
	return strings.Join(p.stack, ".")
}

func (p *parser) statement(line string) error {
	if line == "}" {
		if len(p.stack) == 0 {
			return fmt.Errorf("unbalanced closing brace")
		}
		if p.path() == "android.buildTypes."+p.stack[len(p.stack)-1] {
			p.variant = -1
		}
		p.stack = p.stack[:len(p.stack)-1]
		return nil
	}

	if m := blockOpenPattern.FindStringSubmatch(line); m != nil {
		return p.open(m[1], m[2])
	}

	switch p.path() {
	case "plugins":
		return p.plugin(line)
	case "dependencies":
		return p.dependency(line)
	}

	m := assignPattern.FindStringSubmatch(line)
	if m == nil {
		return fmt.Errorf("unsupported statement in %q", p.path())
	}
	return p.assign(m[1], strings.TrimSpace(m[2]))
}

func (p *parser) open(name, arg string) error {
	parent := p.path()
	switch {
	case inSigningConfigs(parent):
		// identities come from the signing registry, not the script
	case parent == "android.buildTypes":
		if name == "getByName" || name == "create" || name == "maybeCreate" {
			name = arg
		}
		if name == "" {
			return fmt.Errorf("build type needs a name")
		}
		p.m.Variants = append(p.m.Variants, manifest.BuildVariant{Name: name})
		p.variant = len(p.m.Variants) - 1
	case arg != "":
		return fmt.Errorf("unsupported block %s(%q)", name, arg)
	}
	p.stack = append(p.stack, name)
	return nil
}

func (p *parser) plugin(line string) error {
	if m := backtickPlugin.FindStringSubmatch(line); m != nil {
		p.m.Plugins = append(p.m.Plugins, manifest.PluginRef{ID: m[1]})
		return nil
	}
	m := pluginPattern.FindStringSubmatch(line)
	if m == nil {
		return fmt.Errorf("expected id(\"...\") in plugins block")
	}
	if m[3] == "false" {
		return nil
	}
	p.m.Plugins = append(p.m.Plugins, manifest.PluginRef{ID: m[1], Version: m[2]})
	return nil
}

func (p *parser) dependency(line string) error {
	m := dependencyPattern.FindStringSubmatch(line)
	if m == nil {
		return fmt.Errorf("expected scope(\"group:artifact:version\") in dependencies block")
	}
	dep, err := manifest.ParseCoordinate(m[3], m[1])
	if err != nil {
		return err
	}
	dep.Platform = m[2] != ""
	p.m.Dependencies = append(p.m.Dependencies, dep)
	return nil
}

func (p *parser) assign(key, raw string) error {
	path := p.path()
	if inSigningConfigs(path) {
		return nil
	}

	if p.variant >= 0 && path == "android.buildTypes."+p.m.Variants[p.variant].Name {
		return p.assignVariant(&p.m.Variants[p.variant], key, raw)
	}

	switch path + "." + key {
	case "android.namespace":
		s, err := stringLiteral(raw)
		p.m.Namespace = s
		return err
	case "android.compileSdk", "android.compileSdkVersion":
		return intValue(raw, &p.m.SDK.Compile)
	case "android.ndkVersion":
		return textValue(raw, &p.m.NDKVersion)
	case "android.defaultConfig.applicationId":
		s, err := stringLiteral(raw)
		p.m.ApplicationID = s
		return err
	case "android.defaultConfig.minSdk", "android.defaultConfig.minSdkVersion":
		return intValue(raw, &p.m.SDK.Min)
	case "android.defaultConfig.targetSdk", "android.defaultConfig.targetSdkVersion":
		return intValue(raw, &p.m.SDK.Target)
	case "android.defaultConfig.versionCode":
		return intValue(raw, &p.m.Version.Code)
	case "android.defaultConfig.versionName":
		return textValue(raw, &p.m.Version.Name)
	case "android.compileOptions.sourceCompatibility":
		return javaLevel(raw, &p.m.Java.SourceCompatibility)
	case "android.compileOptions.targetCompatibility":
		return javaLevel(raw, &p.m.Java.TargetCompatibility)
	case "android.kotlinOptions.jvmTarget", "kotlinOptions.jvmTarget":
		return javaLevel(raw, &p.m.Java.JvmTarget)
	case "flutter.source":
		s, err := stringLiteral(raw)
		p.m.Flutter.Source = s
		return err
	}

	return fmt.Errorf("unsupported setting %q", strings.TrimPrefix(path+"."+key, "."))
}

func (p *parser) assignVariant(v *manifest.BuildVariant, key, raw string) error {
	switch key {
	case "signingConfig":
		m := signingRefPattern.FindStringSubmatch(raw)
		if m == nil {
			if raw == "null" {
				v.SigningConfig = ""
				return nil
			}
			return fmt.Errorf("unsupported signing config reference %s", raw)
		}
		v.SigningConfig = m[1] + m[2]
		return nil
	case "isMinifyEnabled", "minifyEnabled":
		b, err := strconv.ParseBool(raw)
		v.Minify = b
		return err
	case "isDebuggable", "debuggable":
		b, err := strconv.ParseBool(raw)
		v.Debuggable = b
		return err
	}
	return fmt.Errorf("unsupported build type setting %q", key)
}

func inSigningConfigs(path string) bool {
	return path == "android.signingConfigs" || strings.HasPrefix(path, "android.signingConfigs.")
}

// stringLiteral unquotes a Kotlin string literal. String templates are
// rejected since the importer cannot evaluate them.
func stringLiteral(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("expected a string literal, got %s", raw)
	}
	body := raw[1 : len(raw)-1]

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch c {
		case '"':
			return "", fmt.Errorf("unescaped quote in string literal %s", raw)
		case '$':
			if i+1 < len(body) && (body[i+1] == '{' || body[i+1] == '_' || isLetter(body[i+1])) {
				return "", fmt.Errorf("string templates are not supported: %s", raw)
			}
			b.WriteByte(c)
			continue
		case '\\':
		default:
			b.WriteByte(c)
			continue
		}

		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling escape in string literal %s", raw)
		}
		switch body[i] {
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '\'', '"', '\\', '$':
			b.WriteByte(body[i])
		case 'u':
			if i+4 >= len(body) {
				return "", fmt.Errorf("short unicode escape in string literal %s", raw)
			}
			r, err := strconv.ParseUint(body[i+1:i+5], 16, 32)
			if err != nil {
				return "", fmt.Errorf("bad unicode escape in string literal %s", raw)
			}
			b.WriteRune(rune(r))
			i += 4
		default:
			return "", fmt.Errorf("unsupported escape \\%c in string literal %s", body[i], raw)
		}
	}
	return b.String(), nil
}

func quoted(raw string) bool {
	return strings.HasPrefix(raw, `"`)
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func intValue(raw string, dst *manifest.Value) error {
	if quoted(raw) {
		s, err := stringLiteral(raw)
		if err != nil {
			return err
		}
		raw = s
	}
	v, err := manifest.ParseValue(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// textValue keeps quoted strings literal and turns property references such
// as flutter.versionName into symbols.
func textValue(raw string, dst *manifest.Text) error {
	if quoted(raw) {
		s, err := stringLiteral(raw)
		*dst = manifest.Text{Literal: s}
		return err
	}
	v, err := manifest.ParseValue(raw)
	if err != nil {
		return err
	}
	if !v.IsSymbolic() {
		*dst = manifest.Text{Literal: raw}
		return nil
	}
	*dst = manifest.Text{Symbol: v.Symbol}
	return nil
}

func javaLevel(raw string, dst *string) error {
	if quoted(raw) {
		s, err := stringLiteral(raw)
		*dst = s
		return err
	}
	m := javaVersionRef.FindStringSubmatch(raw)
	if m == nil {
		return fmt.Errorf("unsupported Java level %s", raw)
	}
	level := strings.ReplaceAll(m[1], "_", ".")
	*dst = level
	return nil
}

// stripComment drops a trailing // comment that is not inside a string.
func stripComment(line string) string {
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			inString = !inString
		case '/':
			if !inString && i+1 < len(line) && line[i+1] == '/' {
				return line[:i]
			}
		}
	}
	return line
}

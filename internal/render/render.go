// Package render writes a resolved plan back out as a concrete
// build.gradle.kts in which every symbolic value has been substituted.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adeokamate/smart-sytem/internal/plan"
	"github.com/adeokamate/smart-sytem/internal/signing"
)

const DefaultFileName = "build.gradle.kts"

type Options struct {
	Plan         *plan.Plan
	OutputDir    string
	FileName     string
	ConfirmWrite func(path string) error
}

// Generate renders opts.Plan into OutputDir and returns the written path.
func Generate(opts Options) (string, error) {
	if opts.Plan == nil {
		return "", fmt.Errorf("plan is required")
	}
	if opts.OutputDir == "" {
		return "", fmt.Errorf("output directory is required")
	}

	name := opts.FileName
	if name == "" {
		name = DefaultFileName
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	target := filepath.Join(opts.OutputDir, name)
	if opts.ConfirmWrite != nil {
		if err := opts.ConfirmWrite(target); err != nil {
			return "", err
		}
	}

	if err := os.WriteFile(target, []byte(Gradle(opts.Plan)), 0o644); err != nil {
		return "", fmt.Errorf("write gradle script %q: %w", target, err)
	}

	return target, nil
}

// Gradle returns the Kotlin DSL for p.
func Gradle(p *plan.Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "// Generated from resolved build plan %s. Do not edit.\n\n", p.ID)

	b.WriteString("plugins {\n")
	for _, plugin := range p.Plugins {
		if plugin.Version != "" {
			fmt.Fprintf(&b, "    id(%s) version %s\n", kotlinString(plugin.ID), kotlinString(plugin.Version))
			continue
		}
		fmt.Fprintf(&b, "    id(%s)\n", kotlinString(plugin.ID))
	}
	b.WriteString("}\n\n")

	b.WriteString("android {\n")
	fmt.Fprintf(&b, "    namespace = %s\n", kotlinString(p.Namespace))
	fmt.Fprintf(&b, "    compileSdk = %d\n", p.SDK.Compile)
	if p.NDKVersion != "" {
		fmt.Fprintf(&b, "    ndkVersion = %s\n", kotlinString(p.NDKVersion))
	}

	if p.Java.SourceCompatibility != "" || p.Java.TargetCompatibility != "" {
		b.WriteString("\n    compileOptions {\n")
		if p.Java.SourceCompatibility != "" {
			fmt.Fprintf(&b, "        sourceCompatibility = %s\n", javaVersion(p.Java.SourceCompatibility))
		}
		if p.Java.TargetCompatibility != "" {
			fmt.Fprintf(&b, "        targetCompatibility = %s\n", javaVersion(p.Java.TargetCompatibility))
		}
		b.WriteString("    }\n")
	}

	if p.Java.JvmTarget != "" {
		b.WriteString("\n    kotlinOptions {\n")
		fmt.Fprintf(&b, "        jvmTarget = %s\n", kotlinString(p.Java.JvmTarget))
		b.WriteString("    }\n")
	}

	b.WriteString("\n    defaultConfig {\n")
	fmt.Fprintf(&b, "        applicationId = %s\n", kotlinString(p.ApplicationID))
	fmt.Fprintf(&b, "        minSdk = %d\n", p.SDK.Min)
	fmt.Fprintf(&b, "        targetSdk = %d\n", p.SDK.Target)
	fmt.Fprintf(&b, "        versionCode = %d\n", p.Version.Code)
	fmt.Fprintf(&b, "        versionName = %s\n", kotlinString(p.Version.Name))
	b.WriteString("    }\n")

	writeSigningConfigs(&b, p.Variants)

	if len(p.Variants) > 0 {
		b.WriteString("\n    buildTypes {\n")
		for _, v := range p.Variants {
			if v.Name == "debug" || v.Name == "release" {
				fmt.Fprintf(&b, "        %s {\n", v.Name)
			} else {
				fmt.Fprintf(&b, "        create(%s) {\n", kotlinString(v.Name))
			}
			if v.Signing != nil {
				fmt.Fprintf(&b, "            signingConfig = signingConfigs.getByName(%s)\n", kotlinString(v.Signing.Name))
			}
			if v.Minify {
				b.WriteString("            isMinifyEnabled = true\n")
			}
			if v.Debuggable {
				b.WriteString("            isDebuggable = true\n")
			}
			b.WriteString("        }\n")
		}
		b.WriteString("    }\n")
	}
	b.WriteString("}\n")

	if p.FlutterSource != "" {
		b.WriteString("\nflutter {\n")
		fmt.Fprintf(&b, "    source = %s\n", kotlinString(p.FlutterSource))
		b.WriteString("}\n")
	}

	if len(p.Dependencies) > 0 {
		b.WriteString("\ndependencies {\n")
		for _, d := range p.Dependencies {
			if d.Platform {
				fmt.Fprintf(&b, "    %s(platform(%s))\n", d.Scope, kotlinString(d.Coordinate()))
				continue
			}
			fmt.Fprintf(&b, "    %s(%s)\n", d.Scope, kotlinString(d.Coordinate()))
		}
		b.WriteString("}\n")
	}

	return b.String()
}

// The Android Gradle plugin always defines the debug signing config, so only
// the other identities need a create block.
func writeSigningConfigs(b *strings.Builder, variants []plan.Variant) {
	identities := make(map[string]signing.Identity)
	for _, v := range variants {
		if v.Signing != nil && v.Signing.Name != signing.DebugName {
			identities[v.Signing.Name] = *v.Signing
		}
	}
	if len(identities) == 0 {
		return
	}

	names := make([]string, 0, len(identities))
	for name := range identities {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("\n    signingConfigs {\n")
	for _, name := range names {
		id := identities[name]
		fmt.Fprintf(b, "        create(%s) {\n", kotlinString(name))
		fmt.Fprintf(b, "            storeFile = file(%s)\n", kotlinString(id.StoreFile))
		fmt.Fprintf(b, "            keyAlias = %s\n", kotlinString(id.KeyAlias))
		if id.StorePasswordEnv != "" {
			fmt.Fprintf(b, "            storePassword = System.getenv(%s)\n", kotlinString(id.StorePasswordEnv))
		}
		if id.KeyPasswordEnv != "" {
			fmt.Fprintf(b, "            keyPassword = System.getenv(%s)\n", kotlinString(id.KeyPasswordEnv))
		}
		b.WriteString("        }\n")
	}
	b.WriteString("    }\n")
}

func javaVersion(level string) string {
	return "JavaVersion.VERSION_" + strings.ReplaceAll(level, ".", "_")
}

var kotlinEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// kotlinString quotes s as a Kotlin string literal with templates disabled.
func kotlinString(s string) string {
	return `"` + kotlinEscaper.Replace(s) + `"`
}

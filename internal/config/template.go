package config

func DefaultTemplate() string {
	return `# buildplan configuration
#
# Precedence: flags > environment variables > config file > defaults
# Environment prefix: BUILDPLAN_

# Build manifest to resolve (.yaml, .yml or .json)
manifest: ./buildplan.yaml

# Gradle/Flutter properties file answering symbolic references such as
# flutter.compileSdkVersion. Leave empty to rely on the built-in Flutter
# defaults and the android.<codename> API level table.
sdk_properties: ./android/local.properties

# Signing registry (YAML list under "signing:"). Leave empty for none.
signing: ""

# Firebase client configuration checked when the manifest applies
# com.google.gms.google-services. Skipped when the file does not exist.
google_services: ./android/app/google-services.json

# Output directory for plan.json and the rendered build.gradle.kts
output: ./build/buildplan

# Register the Android debug identity (~/.android/debug.keystore)
debug_keystore: true

# Enable debug logging
debug: false

# Log output format: text or json
log_format: text
`
}

package manifest

import "sort"

// PluginKind is the canonical identifier of a Gradle plugin the resolver
// knows how to plan for. The set is closed: anything else is rejected.
type PluginKind string

const (
	PluginAndroidApplication PluginKind = "com.android.application"
	PluginAndroidLibrary     PluginKind = "com.android.library"
	PluginKotlinAndroid      PluginKind = "kotlin-android"
	PluginKotlinKapt         PluginKind = "kotlin-kapt"
	PluginGoogleServices     PluginKind = "com.google.gms.google-services"
	PluginCrashlytics        PluginKind = "com.google.firebase.crashlytics"
	PluginFlutter            PluginKind = "dev.flutter.flutter-gradle-plugin"
)

var pluginIDs = map[string]PluginKind{
	string(PluginAndroidApplication): PluginAndroidApplication,
	string(PluginAndroidLibrary):     PluginAndroidLibrary,
	string(PluginKotlinAndroid):      PluginKotlinAndroid,
	"org.jetbrains.kotlin.android":   PluginKotlinAndroid,
	string(PluginKotlinKapt):         PluginKotlinKapt,
	"org.jetbrains.kotlin.kapt":      PluginKotlinKapt,
	string(PluginGoogleServices):     PluginGoogleServices,
	string(PluginCrashlytics):        PluginCrashlytics,
	string(PluginFlutter):            PluginFlutter,
}

// LookupPlugin maps a plugin id, including known aliases, to its kind.
func LookupPlugin(id string) (PluginKind, bool) {
	kind, ok := pluginIDs[id]
	return kind, ok
}

// KnownPlugins returns every accepted plugin id, aliases included, sorted.
func KnownPlugins() []string {
	ids := make([]string, 0, len(pluginIDs))
	for id := range pluginIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

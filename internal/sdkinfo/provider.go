// Package sdkinfo supplies the concrete values behind symbolic SDK
// references such as flutter.compileSdkVersion.
package sdkinfo

// Provider maps a symbolic reference to an integer.
type Provider interface {
	Lookup(symbol string) (int, bool)
}

// TextProvider is implemented by providers that can also answer string
// valued symbols (flutter.versionName, flutter.ndkVersion).
type TextProvider interface {
	LookupText(symbol string) (string, bool)
}

// Map is a fixed symbol table.
type Map map[string]int

func (m Map) Lookup(symbol string) (int, bool) {
	v, ok := m[symbol]
	return v, ok
}

// Chain consults providers in order; the first hit wins.
type Chain []Provider

func (c Chain) Lookup(symbol string) (int, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if v, ok := p.Lookup(symbol); ok {
			return v, true
		}
	}
	return 0, false
}

func (c Chain) LookupText(symbol string) (string, bool) {
	for _, p := range c {
		tp, ok := p.(TextProvider)
		if !ok {
			continue
		}
		if v, ok := tp.LookupText(symbol); ok {
			return v, true
		}
	}
	return "", false
}

type flutterDefaults struct {
	ints  Map
	texts map[string]string
}

// FlutterDefaults returns the values the Flutter Gradle plugin exposes
// through its `flutter` extension when the project does not override them.
func FlutterDefaults() Provider {
	return flutterDefaults{
		ints: Map{
			"flutter.compileSdkVersion": 34,
			"flutter.targetSdkVersion":  34,
			"flutter.minSdkVersion":     21,
		},
		texts: map[string]string{
			"flutter.ndkVersion": "26.1.10909125",
		},
	}
}

func (f flutterDefaults) Lookup(symbol string) (int, bool) {
	return f.ints.Lookup(symbol)
}

func (f flutterDefaults) LookupText(symbol string) (string, bool) {
	v, ok := f.texts[symbol]
	return v, ok
}

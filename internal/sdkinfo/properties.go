package sdkinfo

import (
	"fmt"
	"io"
	"strconv"

	"github.com/magiconair/properties"
)

// Properties answers lookups from a Gradle/Flutter style properties file
// (local.properties, gradle.properties).
type Properties map[string]string

// loader leaves ${...} alone; Gradle never expands it in these files.
var loader = properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}

func LoadProperties(path string) (Properties, error) {
	p, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load properties %s: %w", path, err)
	}
	return Properties(p.Map()), nil
}

// ParseProperties reads Java properties syntax: key=value, key:value or
// key value, # and ! comments, backslash escapes and line continuations.
func ParseProperties(r io.Reader) (Properties, error) {
	p, err := loader.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	return Properties(p.Map()), nil
}

func (p Properties) Lookup(symbol string) (int, bool) {
	raw, ok := p[symbol]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p Properties) LookupText(symbol string) (string, bool) {
	v, ok := p[symbol]
	return v, ok
}

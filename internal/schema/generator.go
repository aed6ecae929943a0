// Package schema publishes the manifest format as a JSON Schema so editors
// can validate buildplan.yaml before the resolver ever sees it.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/adeokamate/smart-sytem/internal/manifest"
)

const ManifestID = "https://github.com/adeokamate/smart-sytem/schema/manifest.json"

// reflect builds a JSON Schema (Draft 2020-12) for v with the top-level
// struct inlined rather than behind a $ref.
func reflect(v interface{}) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	return reflector.Reflect(v)
}

// Manifest returns the schema for manifest.Manifest with plugin ids
// enumerated.
func Manifest() ([]byte, error) {
	s := reflect(&manifest.Manifest{})
	s.ID = ManifestID
	s.Title = "buildplan manifest"

	if plugins, ok := s.Definitions["PluginRef"]; ok && plugins.Properties != nil {
		if id, ok := plugins.Properties.Get("id"); ok {
			for _, known := range manifest.KnownPlugins() {
				id.Examples = append(id.Examples, known)
			}
		}
	}

	return marshal(s)
}

func marshal(s *jsonschema.Schema) ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(out, '\n'), nil
}

package manifest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

var symbolPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_-]*)*$`)

// Value is an integer setting that is either a literal or a symbolic
// reference (e.g. flutter.compileSdkVersion) resolved by an SDK info
// provider.
type Value struct {
	Literal int
	Symbol  string
}

func Literal(n int) Value {
	return Value{Literal: n}
}

func Symbol(name string) Value {
	return Value{Symbol: name}
}

func (v Value) IsSymbolic() bool {
	return v.Symbol != ""
}

func (v Value) IsZero() bool {
	return v.Symbol == "" && v.Literal == 0
}

func (v Value) String() string {
	if v.IsSymbolic() {
		return v.Symbol
	}
	return strconv.Itoa(v.Literal)
}

// ParseValue accepts an integer, a bare symbol, or a ${symbol} reference.
func ParseValue(raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Value{}, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return Literal(n), nil
	}
	if name, ok := unwrapSymbol(raw); ok {
		raw = name
	}
	if !symbolPattern.MatchString(raw) {
		return Value{}, fmt.Errorf("%q is neither an integer nor a symbolic reference", raw)
	}
	return Symbol(raw), nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected integer or symbol", node.Line)
	}
	parsed, err := ParseValue(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = parsed
	return nil
}

func (v Value) MarshalYAML() (interface{}, error) {
	if v.IsSymbolic() {
		return v.Symbol, nil
	}
	return v.Literal, nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Literal(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected integer or symbol, got %s", string(data))
	}
	parsed, err := ParseValue(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsSymbolic() {
		return json.Marshal(v.Symbol)
	}
	return json.Marshal(v.Literal)
}

func (Value) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "integer"},
			{Type: "string", Pattern: `^(\$\{)?[A-Za-z_][A-Za-z0-9_.-]*\}?$`},
		},
	}
}

// Text is a string setting. A value written as ${symbol} is a symbolic
// reference; anything else is taken literally.
type Text struct {
	Literal string
	Symbol  string
}

func ParseText(raw string) Text {
	raw = strings.TrimSpace(raw)
	if name, ok := unwrapSymbol(raw); ok && symbolPattern.MatchString(name) {
		return Text{Symbol: name}
	}
	return Text{Literal: raw}
}

func (t Text) IsSymbolic() bool {
	return t.Symbol != ""
}

func (t Text) IsZero() bool {
	return t.Symbol == "" && t.Literal == ""
}

func (t Text) String() string {
	if t.IsSymbolic() {
		return "${" + t.Symbol + "}"
	}
	return t.Literal
}

func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected string", node.Line)
	}
	*t = ParseText(node.Value)
	return nil
}

func (t Text) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected string, got %s", string(data))
	}
	*t = ParseText(s)
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (Text) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string"}
}

func unwrapSymbol(raw string) (string, bool) {
	if strings.HasPrefix(raw, "${") && strings.HasSuffix(raw, "}") {
		return strings.TrimSpace(raw[2 : len(raw)-1]), true
	}
	return "", false
}

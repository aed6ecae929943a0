package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var planNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/adeokamate/smart-sytem/plan"))

// Seal stamps p with an ID derived from its canonical encoding. Equal plans
// always get equal IDs.
func Seal(p *Plan) error {
	p.ID = ""
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	p.ID = uuid.NewSHA1(planNamespace, body).String()
	return nil
}

// Encode returns the canonical indented JSON form of p. Struct field order
// is fixed and the plan holds no maps, so the output is stable.
func Encode(p *Plan) ([]byte, error) {
	body, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	return append(body, '\n'), nil
}

func Write(path string, p *Plan) error {
	payload, err := Encode(p)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create plan directory: %w", err)
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}

	return nil
}

func Read(path string) (*Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var p Plan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse plan JSON: %w", err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("plan %s has no id", path)
	}

	return &p, nil
}

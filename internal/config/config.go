package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type FileConfig struct {
	Manifest       string `yaml:"manifest"`
	SDKProperties  string `yaml:"sdk_properties"`
	Signing        string `yaml:"signing"`
	GoogleServices string `yaml:"google_services"`
	Output         string `yaml:"output"`
	DebugKeystore  *bool  `yaml:"debug_keystore"`
	Debug          *bool  `yaml:"debug"`
	LogFormat      string `yaml:"log_format"`
}

func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read config: %w", err)
	}

	return FromString(string(raw))
}

func FromString(s string) (FileConfig, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal([]byte(s), &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse config YAML: %w", err)
	}
	return cfg, nil
}

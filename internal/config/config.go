// Package config loads and saves render jobs as YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnknownExtension is returned for config paths that are neither YAML
// nor TOML.
var ErrUnknownExtension = errors.New("unknown config extension")

// Config represents one render job for serialization.
type Config struct {
	Pattern    string   `yaml:"pattern" toml:"pattern" json:"pattern"`
	Palette    []string `yaml:"palette,omitempty" toml:"palette,omitempty" json:"palette,omitempty"`
	Preset     string   `yaml:"preset,omitempty" toml:"preset,omitempty" json:"preset,omitempty"`
	Scale      float64  `yaml:"scale" toml:"scale" json:"scale"`
	Contrast   float64  `yaml:"contrast" toml:"contrast" json:"contrast"`
	Brightness float64  `yaml:"brightness" toml:"brightness" json:"brightness"`
	Seed       float64  `yaml:"seed" toml:"seed" json:"seed"`
	Noise      string   `yaml:"noise" toml:"noise" json:"noise"`
	NoiseSeed  uint64   `yaml:"noise_seed" toml:"noise_seed" json:"noise_seed"`
	Grain      string   `yaml:"grain" toml:"grain" json:"grain"`
	Width      int      `yaml:"width" toml:"width" json:"width"`
	Height     int      `yaml:"height" toml:"height" json:"height"`

	Background  string  `yaml:"background,omitempty" toml:"background,omitempty" json:"background,omitempty"`
	Alpha       float64 `yaml:"alpha" toml:"alpha" json:"alpha"`
	ShowOverlay bool    `yaml:"show_overlay" toml:"show_overlay" json:"show_overlay"`
	Vision      string  `yaml:"vision" toml:"vision" json:"vision"`
	Edges       bool    `yaml:"edges" toml:"edges" json:"edges"`

	Output  string `yaml:"output,omitempty" toml:"output,omitempty" json:"output,omitempty"`
	Caption bool   `yaml:"caption" toml:"caption" json:"caption"`
}

type encoding int

const (
	encYAML encoding = iota
	encTOML
)

func encodingFor(path string) (encoding, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return encYAML, nil
	case ".toml":
		return encTOML, nil
	default:
		return 0, fmt.Errorf("%w: %q (use .yaml, .yml or .toml)", ErrUnknownExtension, filepath.Ext(path))
	}
}

// Load reads a config file. Fields absent from the file keep their
// Default values.
func Load(path string) (*Config, error) {
	enc, err := encodingFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch enc {
	case encTOML:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	return cfg, nil
}

// Save writes cfg to path in the encoding selected by its extension.
func Save(path string, cfg *Config) error {
	data, err := Marshal(path, cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal encodes cfg in the encoding selected by the extension of path.
func Marshal(path string, cfg *Config) ([]byte, error) {
	enc, err := encodingFor(path)
	if err != nil {
		return nil, err
	}
	switch enc {
	case encTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return data, nil
	}
}

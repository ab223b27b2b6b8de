// Package config loads the toon CLI's persistent settings: the default
// encode/decode option sets and a naming convention applied to struct
// field names that carry no explicit `toon` tag.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of .toon.yml.
type Config struct {
	Encode EncodeConfig `yaml:"encode"`
	Decode DecodeConfig `yaml:"decode"`
	Naming NamingConfig `yaml:"naming"`
}

// EncodeConfig mirrors toon.EncodeOptions.
type EncodeConfig struct {
	Indent       int    `yaml:"indent"`
	Delimiter    string `yaml:"delimiter"`
	KeyFolding   string `yaml:"key_folding"`
	FlattenDepth int    `yaml:"flatten_depth"`
}

// DecodeConfig mirrors toon.Options.
type DecodeConfig struct {
	Indent      int    `yaml:"indent"`
	Strict      bool   `yaml:"strict"`
	ExpandPaths string `yaml:"expand_paths"`
}

// NamingConfig controls how a struct field without a `toon` tag is
// turned into a key.
type NamingConfig struct {
	// Case is one of "asis", "camel", "snake", "kebab". Default "asis".
	Case string `yaml:"case"`
}

// Default returns the CLI's built-in defaults, matching
// toon.DefaultEncodeOptions/DefaultOptions.
func Default() *Config {
	return &Config{
		Encode: EncodeConfig{Indent: 2, Delimiter: ",", KeyFolding: "off", FlattenDepth: -1},
		Decode: DecodeConfig{Indent: 2, Strict: true, ExpandPaths: "off"},
		Naming: NamingConfig{Case: "asis"},
	}
}

// Load reads and parses a YAML config file, applying its values on top
// of Default so that a partial file only overrides what it mentions.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Find searches the current directory and its ancestors for a .toon.yml
// or .toon.yaml file, returning "" if none is found.
func Find() string {
	names := []string{".toon.yml", ".toon.yaml"}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		for _, name := range names {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ApplyFieldCase converts a Go struct field name into a key per the
// configured naming convention.
func (c *Config) ApplyFieldCase(fieldName string) string {
	switch c.Naming.Case {
	case "camel":
		return strcase.ToLowerCamel(fieldName)
	case "snake":
		return strcase.ToSnake(fieldName)
	case "kebab":
		return strcase.ToKebab(fieldName)
	default:
		return fieldName
	}
}

// DelimiterByte resolves the configured delimiter name to the byte the
// encoder expects.
func (c *Config) DelimiterByte() byte {
	switch c.Encode.Delimiter {
	case "tab", "\t":
		return '\t'
	case "pipe", "|":
		return '|'
	default:
		return ','
	}
}

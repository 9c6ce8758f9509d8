// Package datafile decodes template data from JSON, YAML or TOML documents.
package datafile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ParseFormat maps a name such as "yml" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("unsupported data format %q", name)
	}
}

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot infer data format of %q: no extension", path)
	}
	return ParseFormat(ext)
}

// Decode reads a whole document from r. JSON numbers decode as float64,
// YAML integers as int; TOML tables become map[string]any.
func Decode(r io.Reader, format Format) (any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	return Unmarshal(raw, format)
}

// Unmarshal decodes a document held in memory.
func Unmarshal(raw []byte, format Format) (any, error) {
	var out any
	switch format {
	case JSON:
		if len(bytes.TrimSpace(raw)) == 0 {
			return map[string]any{}, nil
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case YAML:
		if err := yaml.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		if out == nil {
			out = map[string]any{}
		}
	case TOML:
		var table map[string]any
		if _, err := toml.Decode(string(raw), &table); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		if table == nil {
			table = map[string]any{}
		}
		out = table
	default:
		return nil, fmt.Errorf("unsupported data format %q", format)
	}
	return out, nil
}

// ReadFile decodes the file at path using its extension to pick a format.
func ReadFile(path string) (any, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()
	return Decode(f, format)
}

// ReadStringMap decodes a flat document of string values, such as a rules
// file mapping key paths to validator tags.
func ReadStringMap(path string) (map[string]string, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a mapping, got %T", path, doc)
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s: value of %q must be a string, got %T", path, k, v)
		}
		out[k] = s
	}
	return out, nil
}

// Package config loads settings for the stache command.
//
// Settings come from, in increasing precedence: DefaultConfig, a config
// file (YAML, TOML or JSON, chosen by extension), STACHE_* environment
// variables, and command-line flags.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/stache/escape"
	"github.com/randalmurphal/stache/schema"
	"github.com/randalmurphal/stache/template"
)

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// JSONSchema describes Duration as a string.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Go duration such as 250ms or 2s",
		Examples:    []any{"250ms"},
	}
}

// Config holds settings for rendering from the command line.
type Config struct {
	// IgnoreMissing leaves placeholders without a value in the output.
	IgnoreMissing bool `json:"ignore_missing" yaml:"ignore_missing" toml:"ignore_missing" jsonschema:"description=Leave placeholders without a value in the output"`

	// Escaper applied to {{key}} placeholders: html, none or strict.
	Escaper string `json:"escaper,omitempty" yaml:"escaper,omitempty" toml:"escaper,omitempty" jsonschema:"enum=html,enum=none,enum=strict,default=html"`

	// Transforms are applied to every value in order.
	// Values: upper, lower, trim, json, truncate=N, default=TEXT
	Transforms []string `json:"transforms,omitempty" yaml:"transforms,omitempty" toml:"transforms,omitempty"`

	// Data is the default data file.
	Data string `json:"data,omitempty" yaml:"data,omitempty" toml:"data,omitempty"`

	// Rules maps key paths to go-playground/validator tags.
	Rules map[string]string `json:"rules,omitempty" yaml:"rules,omitempty" toml:"rules,omitempty"`

	// RulesFile is a YAML, TOML or JSON file of additional rules.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty" toml:"rules_file,omitempty"`

	// Concurrency bounds how many templates render at once. 0 means one per CPU.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty" toml:"concurrency,omitempty" jsonschema:"minimum=0"`

	// Debounce delays a watch-mode re-render after a change.
	Debounce Duration `json:"debounce,omitempty" yaml:"debounce,omitempty" toml:"debounce,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Escaper:  "html",
		Debounce: Duration(100 * time.Millisecond),
	}
}

// Load reads a config file over DefaultConfig. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		meta, err := toml.Decode(string(raw), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("parse config %s: unknown keys %v", path, undecoded)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return cfg, nil
}

// LoadFromEnv populates fields from environment variables, which take
// precedence over existing values.
//
// Supported variables:
//   - STACHE_IGNORE_MISSING: true or false
//   - STACHE_ESCAPER: html, none or strict
//   - STACHE_TRANSFORMS: comma-separated transform list
//   - STACHE_DATA: data file
//   - STACHE_RULES_FILE: rules file
//   - STACHE_CONCURRENCY: render concurrency
//   - STACHE_DEBOUNCE: watch debounce (e.g. "250ms")
func (c *Config) LoadFromEnv() {
	c.loadVars(os.Getenv)
}

// LoadEnvFile applies STACHE_* variables from a dotenv file. Variables
// already set in the process environment win over the file, as with
// godotenv.Load, but the process environment is not modified.
func (c *Config) LoadEnvFile(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read env file: %w", err)
	}
	c.loadVars(func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return vars[key]
	})
	return nil
}

func (c *Config) loadVars(getenv func(string) string) {
	if v := getenv("STACHE_IGNORE_MISSING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.IgnoreMissing = b
		}
	}
	if v := getenv("STACHE_ESCAPER"); v != "" {
		c.Escaper = v
	}
	if v := getenv("STACHE_TRANSFORMS"); v != "" {
		c.Transforms = splitList(v)
	}
	if v := getenv("STACHE_DATA"); v != "" {
		c.Data = v
	}
	if v := getenv("STACHE_RULES_FILE"); v != "" {
		c.RulesFile = v
	}
	if v := getenv("STACHE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
	if v := getenv("STACHE_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Debounce = Duration(d)
		}
	}
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	return cfg
}

// Validate checks that every setting can be turned into render options.
func (c *Config) Validate() error {
	if _, err := escape.ByName(c.Escaper); err != nil {
		return err
	}
	for _, spec := range c.Transforms {
		if _, err := template.TransformByName(spec); err != nil {
			return err
		}
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must be >= 0, got %v", time.Duration(c.Debounce))
	}
	if len(c.Rules) > 0 {
		if _, err := schema.Rules(c.Rules); err != nil {
			return err
		}
	}
	return nil
}

// Options converts the config into render options.
func (c *Config) Options() ([]template.Option, error) {
	esc, err := escape.ByName(c.Escaper)
	if err != nil {
		return nil, err
	}
	opts := []template.Option{
		template.WithIgnoreMissing(c.IgnoreMissing),
		template.WithEscaper(esc),
	}
	for _, spec := range c.Transforms {
		fn, err := template.TransformByName(spec)
		if err != nil {
			return nil, err
		}
		opts = append(opts, template.WithTransform(fn))
	}
	return opts, nil
}

// Schema builds the rules schema, merging Rules over rules read from
// RulesFile by the caller. It returns nil when there are no rules.
func (c *Config) Schema(fileRules map[string]string) (schema.Schema, error) {
	merged := make(map[string]string, len(fileRules)+len(c.Rules))
	for k, v := range fileRules {
		merged[k] = v
	}
	for k, v := range c.Rules {
		merged[k] = v
	}
	if len(merged) == 0 {
		return nil, nil
	}
	rules, err := schema.Rules(merged)
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// JSONSchema describes the config file format.
func JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		FieldNameTag:              "yaml",
		AllowAdditionalProperties: false,
	}
	return r.Reflect(&Config{})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package config loads tracer settings from YAML files and the environment.
//
// A configuration file looks like:
//
//	enabled: true
//	style: detailed
//	gate:
//	  min_total: 250ms
//	filters:
//	  slow_only: 40ms
//	  group_similar: 10ms
//
// Files are validated against an embedded JSON Schema before decoding.
// Environment variables override file values:
//   - QUICKTRACE_ENABLED: true/false
//   - QUICKTRACE_SILENT: true/false
//   - QUICKTRACE_STYLE: output style name
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/LeDuyViet/quicktrace"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema.json"

// Config is the file representation of tracer options.
type Config struct {
	Enabled bool    `yaml:"enabled"`
	Silent  bool    `yaml:"silent"`
	Style   string  `yaml:"style"`
	Caller  bool    `yaml:"caller"`
	Gate    Gate    `yaml:"gate"`
	Filters Filters `yaml:"filters"`
}

// Gate selects at most one report gate. With none set the tracer keeps its
// default gate.
type Gate struct {
	// MinTotal reports traces whose total duration is at least this long.
	// A zero value reports every trace; nil leaves it unset.
	MinTotal *time.Duration `yaml:"min_total"`
	// MinSpan reports traces with at least one checkpoint this long.
	MinSpan *time.Duration `yaml:"min_span"`
	// Expr is a boolean expression over name, total_ms, spans and max_span_ms.
	Expr string `yaml:"expr"`
}

func (g Gate) count() int {
	n := 0
	if g.MinTotal != nil {
		n++
	}
	if g.MinSpan != nil {
		n++
	}
	if g.Expr != "" {
		n++
	}
	return n
}

// Filters configures the filter stages. A zero duration leaves a stage off.
type Filters struct {
	SlowOnly      time.Duration `yaml:"slow_only"`
	HideUltraFast time.Duration `yaml:"hide_ultra_fast"`
	GroupSimilar  time.Duration `yaml:"group_similar"`
}

// Default returns the configuration matching a tracer built without options.
func Default() *Config {
	return &Config{
		Enabled: true,
		Style:   quicktrace.StyleDefault.String(),
		Caller:  true,
	}
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result. An empty path or a missing file yields the defaults
// plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			cfg, err = Parse(data)
			if err != nil {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration on top of the defaults. The document is
// checked against the embedded schema first.
func Parse(data []byte) (*Config, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("QUICKTRACE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Enabled = enabled
		}
	}
	if val := os.Getenv("QUICKTRACE_SILENT"); val != "" {
		if silent, err := strconv.ParseBool(val); err == nil {
			c.Silent = silent
		}
	}
	if val := os.Getenv("QUICKTRACE_STYLE"); val != "" {
		c.Style = val
	}
}

// Validate checks values the schema cannot: style names from the
// environment, gate exclusivity and expression syntax.
func (c *Config) Validate() error {
	if _, err := quicktrace.ParseOutputStyle(c.Style); err != nil {
		return fmt.Errorf("invalid style: %w", err)
	}
	if c.Gate.count() > 1 {
		return errors.New("invalid gate: min_total, min_span and expr are mutually exclusive")
	}
	if negative(c.Gate.MinTotal) || negative(c.Gate.MinSpan) {
		return errors.New("invalid gate: durations must not be negative")
	}
	if c.Filters.SlowOnly < 0 || c.Filters.HideUltraFast < 0 || c.Filters.GroupSimilar < 0 {
		return errors.New("invalid filters: durations must not be negative")
	}
	if c.Gate.Expr != "" {
		if _, err := compileGate(c.Gate.Expr); err != nil {
			return fmt.Errorf("invalid gate expression: %w", err)
		}
	}
	return nil
}

// Options converts the configuration into tracer options. Expression gate
// failures are logged to logger; nil discards them.
func (c *Config) Options(logger *slog.Logger) ([]quicktrace.Option, error) {
	style, err := quicktrace.ParseOutputStyle(c.Style)
	if err != nil {
		return nil, fmt.Errorf("invalid style: %w", err)
	}

	opts := []quicktrace.Option{
		quicktrace.WithEnabled(c.Enabled),
		quicktrace.WithSilent(c.Silent),
		quicktrace.WithOutputStyle(style),
		quicktrace.WithCaller(c.Caller),
		quicktrace.WithSmartFilter(c.Filters.SlowOnly, c.Filters.HideUltraFast, c.Filters.GroupSimilar),
	}
	if logger != nil {
		opts = append(opts, quicktrace.WithLogger(logger))
	}

	switch {
	case c.Gate.MinTotal != nil:
		opts = append(opts, quicktrace.WithMinTotalDuration(*c.Gate.MinTotal))
	case c.Gate.MinSpan != nil:
		opts = append(opts, quicktrace.WithMinSpanDuration(*c.Gate.MinSpan))
	case c.Gate.Expr != "":
		gate, err := ExprGate(c.Gate.Expr, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, quicktrace.WithCustomCondition(gate))
	}

	return opts, nil
}

// Duration returns a pointer to d, for setting gate fields.
func Duration(d time.Duration) *time.Duration {
	return &d
}

func negative(d *time.Duration) bool {
	return d != nil && *d < 0
}

func validateSchema(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}
	if doc == nil {
		return nil
	}

	// The validator expects JSON-decoded values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert config to JSON: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload interface{}
	if err := dec.Decode(&payload); err != nil {
		return fmt.Errorf("convert config to JSON: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

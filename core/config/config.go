// Package config reads adapter settings from YAML or TOML files.
//
//	model: gemini-2.0-flash-001
//	output: structured
//	system_instruction: You are a travel agent.
//	temperature: 0.2
//	api_key_env: [GOOGLE_API_KEY, GEMINI_API_KEY]
//	log:
//	  level: debug
//	  format: json
//
// Pointer fields distinguish "absent" from an explicit zero, so that a
// file containing temperature: 0 sends a temperature of zero.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/agentils/core/credential"
	"github.com/leofalp/agentils/core/llm"
	"github.com/leofalp/agentils/providers/ai"
	"github.com/leofalp/agentils/providers/observability/slogobs"
)

// Config mirrors the adapter options.
type Config struct {
	Model                    string   `yaml:"model,omitempty" toml:"model,omitempty"`
	Output                   string   `yaml:"output,omitempty" toml:"output,omitempty"`
	SystemInstruction        string   `yaml:"system_instruction,omitempty" toml:"system_instruction,omitempty"`
	Temperature              *float64 `yaml:"temperature,omitempty" toml:"temperature,omitempty"`
	MaxOutputTokens          *int     `yaml:"max_output_tokens,omitempty" toml:"max_output_tokens,omitempty"`
	AutomaticFunctionCalling *bool    `yaml:"automatic_function_calling,omitempty" toml:"automatic_function_calling,omitempty"`
	MaxFunctionCalls         *int     `yaml:"max_function_calls,omitempty" toml:"max_function_calls,omitempty"`
	LenientParsing           bool     `yaml:"lenient_parsing,omitempty" toml:"lenient_parsing,omitempty"`

	// APIKeyEnv lists environment variables tried in order for the API key.
	APIKeyEnv []string `yaml:"api_key_env,omitempty" toml:"api_key_env,omitempty"`
	// DotEnv is a .env file consulted after APIKeyEnv.
	DotEnv string `yaml:"dotenv,omitempty" toml:"dotenv,omitempty"`

	Log LogConfig `yaml:"log,omitempty" toml:"log,omitempty"`
}

// LogConfig selects the slog observer settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level,omitempty"`
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

type format int

const (
	formatYAML format = iota
	formatTOML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	default:
		return 0, fmt.Errorf("unsupported config file extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// Load reads a config file; the format follows the extension.
func Load(path string) (*Config, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	switch f {
	case formatTOML:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path in the format given by the extension.
func (c *Config) Save(path string) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch f {
	case formatTOML:
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// Validate checks the values that have a fixed domain.
func (c *Config) Validate() error {
	if c.Output != "" {
		if _, err := ai.ParseOutputMode(c.Output); err != nil {
			return err
		}
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("temperature %v out of range [0, 2]", *c.Temperature)
	}
	if c.MaxOutputTokens != nil && *c.MaxOutputTokens < 0 {
		return fmt.Errorf("max_output_tokens must not be negative")
	}
	if c.MaxFunctionCalls != nil && *c.MaxFunctionCalls < 0 {
		return fmt.Errorf("max_function_calls must not be negative")
	}
	return nil
}

// Options converts the set fields into adapter options.
func (c *Config) Options() []llm.Option {
	var opts []llm.Option
	if c.Model != "" {
		opts = append(opts, llm.WithModel(c.Model))
	}
	if c.Output != "" {
		if mode, err := ai.ParseOutputMode(c.Output); err == nil {
			opts = append(opts, llm.WithOutput(mode))
		}
	}
	if c.SystemInstruction != "" {
		opts = append(opts, llm.WithSystemInstruction(c.SystemInstruction))
	}
	if c.Temperature != nil {
		opts = append(opts, llm.WithTemperature(*c.Temperature))
	}
	if c.MaxOutputTokens != nil {
		opts = append(opts, llm.WithMaxOutputTokens(*c.MaxOutputTokens))
	}
	if c.AutomaticFunctionCalling != nil {
		opts = append(opts, llm.WithAutomaticFunctionCalling(*c.AutomaticFunctionCalling))
	}
	if c.MaxFunctionCalls != nil {
		opts = append(opts, llm.WithMaxFunctionCalls(*c.MaxFunctionCalls))
	}
	if c.LenientParsing {
		opts = append(opts, llm.WithLenientParsing())
	}
	if sources := c.CredentialSources(); sources != nil {
		opts = append(opts, llm.WithCredentialSources(sources...))
	}
	return opts
}

// CredentialSources returns the configured lookup chain, or nil to keep
// the default one.
func (c *Config) CredentialSources() []credential.Source {
	if len(c.APIKeyEnv) == 0 && c.DotEnv == "" {
		return nil
	}

	names := c.APIKeyEnv
	if len(names) == 0 {
		names = []string{credential.EnvGoogleAPIKey, credential.EnvGeminiAPIKey}
	}
	sources := make([]credential.Source, 0, len(names)+1)
	for _, name := range names {
		sources = append(sources, credential.Env(name))
	}
	if c.DotEnv != "" {
		sources = append(sources, credential.DotEnv(c.DotEnv, names...))
	}
	return sources
}

// LogOptions converts the log section into slog observer options. Unset
// values leave the environment defaults in place.
func (c *Config) LogOptions() []slogobs.Option {
	var opts []slogobs.Option
	if c.Log.Level != "" {
		opts = append(opts, slogobs.WithLevel(slogobs.ParseLevel(c.Log.Level)))
	}
	if c.Log.Format != "" {
		opts = append(opts, slogobs.WithFormat(slogobs.ParseFormat(c.Log.Format)))
	}
	return opts
}

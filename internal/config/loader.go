package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known generation backend names. Used by
// [Validate] to warn about unrecognised provider names.
var ValidProviderNames = []string{
	"openai", "anthropic", "ollama", "gemini", "deepseek", "mistral",
	"groq", "llamacpp", "llamafile", "mock",
}

// envOverrides are environment variables applied on top of the YAML file.
// They exist so that containerised deployments can flip the essentials
// without editing the config file.
type envOverrides struct {
	Port     string `env:"PORT"`
	TestMode *bool  `env:"TEST_MODE"`
	APIKey   string `env:"PLOTWEAVER_API_KEY"`
	Model    string `env:"PLOTWEAVER_MODEL"`
}

// Load reads the YAML configuration file at path and returns a validated
// [Config] with defaults and environment overrides applied. It is a
// convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults and
// environment overrides, and validates the result. Useful in tests where
// configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays recognised environment variables onto cfg.
func applyEnv(cfg *Config) error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("config: parse environment: %w", err)
	}
	if ov.Port != "" {
		cfg.Server.ListenAddr = ":" + ov.Port
	}
	if ov.TestMode != nil {
		cfg.Generation.TestMode = *ov.TestMode
	}
	if ov.APIKey != "" {
		cfg.Generation.Provider.APIKey = ov.APIKey
	}
	if ov.Model != "" {
		cfg.Generation.Provider.Model = ov.Model
	}
	return nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" || cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
		}
	}

	if cfg.Generation.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("generation.max_tokens %d must not be negative", cfg.Generation.MaxTokens))
	}
	if cfg.Generation.Temperature < 0 || cfg.Generation.Temperature > 2 {
		errs = append(errs, fmt.Errorf("generation.temperature %.2f is out of range [0, 2]", cfg.Generation.Temperature))
	}

	name := cfg.Generation.Provider.Name
	if name != "" && !slices.Contains(ValidProviderNames, name) {
		slog.Warn("unknown provider name — may be a typo or third-party provider",
			"name", name,
			"known", ValidProviderNames,
		)
	}
	if name == "" && !cfg.Generation.TestMode {
		slog.Warn("no generation provider configured and test_mode is off; generation endpoints will report unavailable")
	}

	return errors.Join(errs...)
}

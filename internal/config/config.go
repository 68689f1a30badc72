// Package config provides the configuration schema, loader, provider
// registry, and hot-reload watcher for the PlotWeaver server.
package config

// LogLevel controls log verbosity for the PlotWeaver server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for PlotWeaver.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Data       DataConfig       `yaml:"data"`
	Generation GenerationConfig `yaml:"generation"`
}

// ServerConfig holds network and logging settings for the PlotWeaver server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8000").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// DataConfig holds the on-disk locations of the persisted creative state.
type DataConfig struct {
	// WorldDir holds world_settings.json, timeline.json and plot_threads.json.
	WorldDir string `yaml:"world_dir"`

	// StoryDir holds stories.json.
	StoryDir string `yaml:"story_dir"`

	// MemoryFile is the character memory JSON file.
	MemoryFile string `yaml:"memory_file"`
}

// GenerationConfig selects and tunes the text-generation backend.
type GenerationConfig struct {
	// Provider selects which registered backend to use.
	Provider ProviderEntry `yaml:"provider"`

	// TestMode replaces the backend with a deterministic mock. Also
	// settable via the TEST_MODE environment variable.
	TestMode bool `yaml:"test_mode"`

	// MaxTokens is the default completion cap for plain generation.
	MaxTokens int `yaml:"max_tokens"`

	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature"`
}

// ProviderEntry is the common configuration block for generation backends.
// The Name field is used to look up the constructor in the [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation (e.g., "openai", "ollama").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	// Leave empty to use the provider's built-in default.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider (e.g., "gpt-4o").
	Model string `yaml:"model"`

	// Options holds provider-specific configuration values not covered by the
	// standard fields above. Values may be strings, numbers, booleans, or nested maps.
	Options map[string]any `yaml:"options"`
}

// Default returns a Config with all defaults applied: a plain HTTP server
// on :8000 and flat JSON files in the working directory, matching what a
// fresh checkout expects.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8000",
			LogLevel:   LogInfo,
		},
		Data: DataConfig{
			WorldDir:   "world_data",
			StoryDir:   "story_data",
			MemoryFile: "character_memory.json",
		},
		Generation: GenerationConfig{
			MaxTokens:   512,
			Temperature: 0.7,
		},
	}
}

// applyDefaults fills zero-valued fields from [Default].
func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = def.Server.ListenAddr
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}
	if c.Data.WorldDir == "" {
		c.Data.WorldDir = def.Data.WorldDir
	}
	if c.Data.StoryDir == "" {
		c.Data.StoryDir = def.Data.StoryDir
	}
	if c.Data.MemoryFile == "" {
		c.Data.MemoryFile = def.Data.MemoryFile
	}
	if c.Generation.MaxTokens == 0 {
		c.Generation.MaxTokens = def.Generation.MaxTokens
	}
	if c.Generation.Temperature == 0 {
		c.Generation.Temperature = def.Generation.Temperature
	}
}

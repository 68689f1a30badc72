package config

// ConfigDiff describes what changed between two configs. Only fields that
// can be safely hot-reloaded are tracked; a provider change requires a
// restart and is reported as such.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// GenerationChanged covers the tunable generation defaults
	// (max_tokens, temperature, test_mode).
	GenerationChanged bool

	// ProviderChanged reports that the backend selection itself changed.
	// This cannot be applied without a restart.
	ProviderChanged bool
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	og, ng := old.Generation, new.Generation
	if og.MaxTokens != ng.MaxTokens || og.Temperature != ng.Temperature || og.TestMode != ng.TestMode {
		d.GenerationChanged = true
	}

	if og.Provider.Name != ng.Provider.Name ||
		og.Provider.Model != ng.Provider.Model ||
		og.Provider.BaseURL != ng.Provider.BaseURL ||
		og.Provider.APIKey != ng.Provider.APIKey {
		d.ProviderChanged = true
	}

	return d
}

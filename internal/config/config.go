package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Engine   EngineConfig   `mapstructure:"engine" validate:"required"`
	Artifact ArtifactConfig `mapstructure:"artifact" validate:"required"`
	History  HistoryConfig  `mapstructure:"history" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// EngineConfig contains settings for the external content-processing engine.
type EngineConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`

	// MaxRetries bounds retry attempts for transient engine API failures.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0,lte=10"`

	// RetryDelaySeconds is the base delay between retries; actual delays grow
	// exponentially with jitter.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=30"`
}

// ArtifactConfig contains settings for temporary upload staging.
type ArtifactConfig struct {
	// ScratchDir holds staged uploads and converted derivatives for the
	// duration of a request. Created lazily on first use.
	ScratchDir string `mapstructure:"scratch_dir" validate:"required"`

	// ConvertCommand is the external document converter binary.
	ConvertCommand string `mapstructure:"convert_command" validate:"required"`
}

// HistoryConfig contains settings for the persisted request history.
type HistoryConfig struct {
	// FilePath is the JSON file holding the bounded history log.
	FilePath string `mapstructure:"file_path" validate:"required"`

	// MaxEntries caps the log; oldest entries are evicted first.
	MaxEntries int `mapstructure:"max_entries" validate:"required,gt=0"`
}

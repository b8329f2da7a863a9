package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("engine.model_name", "gemini-2.0-flash")
	v.SetDefault("engine.max_retries", 3)
	v.SetDefault("engine.retry_delay_seconds", 2)
	v.SetDefault("artifact.scratch_dir", "temp_uploads")
	v.SetDefault("artifact.convert_command", "soffice")
	v.SetDefault("history.file_path", "history.json")
	v.SetDefault("history.max_entries", 50)

	// Read from an optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is a real failure
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Configure environment variables with the DISTILL prefix
	v.SetEnvPrefix("DISTILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind critical environment variables
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"server.port", "DISTILL_SERVER_PORT"},
		{"server.log_level", "DISTILL_SERVER_LOG_LEVEL"},
		{"engine.gemini_api_key", "DISTILL_ENGINE_GEMINI_API_KEY"},
		{"engine.model_name", "DISTILL_ENGINE_MODEL_NAME"},
		{"engine.max_retries", "DISTILL_ENGINE_MAX_RETRIES"},
		{"engine.retry_delay_seconds", "DISTILL_ENGINE_RETRY_DELAY_SECONDS"},
		{"artifact.scratch_dir", "DISTILL_ARTIFACT_SCRATCH_DIR"},
		{"artifact.convert_command", "DISTILL_ARTIFACT_CONVERT_COMMAND"},
		{"history.file_path", "DISTILL_HISTORY_FILE_PATH"},
		{"history.max_entries", "DISTILL_HISTORY_MAX_ENTRIES"},
	}

	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	// Unmarshal and validate
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

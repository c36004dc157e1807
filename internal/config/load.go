package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally a config file.
// Environment variables (TASKWIRE_ prefix) take precedence over values from
// config files, which take precedence over defaults.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults keep the service runnable with zero configuration:
	// in-memory store, local-only summaries unless a key is present.
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("store.driver", StoreDriverMemory)
	v.SetDefault("store.database_url", "")
	v.SetDefault("summary.provider", SummaryProviderOpenAI)
	v.SetDefault("summary.model", "gpt-3.5-turbo")
	v.SetDefault("summary.openai_base_url", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("summary.max_output_tokens", 80)
	v.SetDefault("summary.temperature", 0.2)
	v.SetDefault("summary.timeout_seconds", 10)

	// Optional config file in the working directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a malformed one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables: TASKWIRE_SERVER_PORT, TASKWIRE_STORE_DRIVER, ...
	v.SetEnvPrefix("TASKWIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider credentials come from the conventional unprefixed variables.
	// Their absence is deliberate and silently selects the local summary path.
	if err := v.BindEnv("summary.openai_api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY: %w", err)
	}
	if err := v.BindEnv("summary.gemini_api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

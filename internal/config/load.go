package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables (prefix WORDVAULT_)
// and an optional config.yaml in the working directory. Environment
// variables take precedence over file values, which take precedence over
// defaults. The populated Config is validated before being returned.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine: env vars and defaults cover everything.
	}

	v.SetEnvPrefix("WORDVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 0) // 0 selects the bcrypt default cost

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.request_timeout", 30*time.Second)

	v.SetDefault("ingestion.sweep_interval", 15*time.Second)
	v.SetDefault("ingestion.lease_timeout", 5*time.Minute)
	v.SetDefault("ingestion.dispatch_per_sweep", 25)

	v.SetDefault("practice.default_question_count", 10)

	v.SetDefault("task.worker_count", 4)
	v.SetDefault("task.queue_size", 100)
}

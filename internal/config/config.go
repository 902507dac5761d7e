package config

import "time"

// Config holds all application configuration, organized into logical
// groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	Ingestion IngestionConfig `mapstructure:"ingestion" validate:"required"`
	Practice  PracticeConfig  `mapstructure:"practice" validate:"required"`
	Task      TaskConfig      `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret         string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMins int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost        int    `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// LLMConfig contains all enrichment service integration settings.
type LLMConfig struct {
	GeminiAPIKey      string        `mapstructure:"gemini_api_key" validate:"required"`
	ModelName         string        `mapstructure:"model_name" validate:"required"`
	MaxRetries        int           `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int           `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
}

// IngestionConfig tunes the bulk ingestion scheduler. The sweep interval
// is a cadence, not a correctness knob; the lease timeout bounds how long
// a dispatched sub-task may stay in flight before it becomes eligible for
// re-dispatch.
type IngestionConfig struct {
	SweepInterval    time.Duration `mapstructure:"sweep_interval" validate:"required"`
	LeaseTimeout     time.Duration `mapstructure:"lease_timeout" validate:"required"`
	DispatchPerSweep int           `mapstructure:"dispatch_per_sweep" validate:"required,gt=0"`
}

// PracticeConfig tunes quiz generation.
type PracticeConfig struct {
	DefaultQuestionCount int `mapstructure:"default_question_count" validate:"required,gt=0"`
}

// TaskConfig tunes the background task runner.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`
}

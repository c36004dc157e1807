package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Store   StoreConfig   `mapstructure:"store"   validate:"required"`
	Summary SummaryConfig `mapstructure:"summary" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Recognized store drivers and summary providers.
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"

	SummaryProviderOpenAI = "openai"
	SummaryProviderGemini = "gemini"
)

// StoreConfig selects and configures the task store backend.
// The default in-memory store needs no settings; the postgres driver
// requires a connection URL.
type StoreConfig struct {
	Driver      string `mapstructure:"driver"       validate:"required,oneof=memory postgres"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Driver postgres,omitempty,url"`
}

// SummaryConfig contains the external summarization provider settings.
// The API keys are read straight from the process environment
// (OPENAI_API_KEY / GEMINI_API_KEY); an absent key is not an error, it
// selects the local-only summarization path.
type SummaryConfig struct {
	Provider        string  `mapstructure:"provider"          validate:"required,oneof=openai gemini"`
	Model           string  `mapstructure:"model"             validate:"required"`
	OpenAIAPIKey    string  `mapstructure:"openai_api_key"`
	OpenAIBaseURL   string  `mapstructure:"openai_base_url"   validate:"required,url"`
	GeminiAPIKey    string  `mapstructure:"gemini_api_key"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens" validate:"required,gt=0"`
	Temperature     float32 `mapstructure:"temperature"       validate:"gte=0,lte=2"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds"   validate:"required,gt=0"`
}

package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Study    StudyConfig    `mapstructure:"study"    validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port      int    `mapstructure:"port"       validate:"required,gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level"  validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"required,oneof=json text"`
	// Timezone is the learner's local calendar used for day boundaries
	// (streaks, daily goals). An IANA name or "Local".
	Timezone string `mapstructure:"timezone" validate:"required"`
	// AllowedOrigins configures CORS for browser clients.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// StudyConfig tunes the study session behavior.
type StudyConfig struct {
	// NewItemCap limits how many never-reviewed items enter a study queue.
	// -1 means unbounded.
	NewItemCap int `mapstructure:"new_item_cap" validate:"gte=-1"`
	// DailyReviewTarget is the number of graded reviews that completes the
	// daily flashcard goal.
	DailyReviewTarget int `mapstructure:"daily_review_target" validate:"required,gt=0"`
	// PassageWordCount is how many target words a reading passage is built
	// around.
	PassageWordCount int `mapstructure:"passage_word_count" validate:"required,gt=0"`
}

// LLMConfig contains the passage-generation settings. Optional: when no
// API key is configured the reading-passage endpoints are disabled.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
	ModelName          string `mapstructure:"model_name"`
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
	MaxRetries         int    `mapstructure:"max_retries"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds"`
}

package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`
	AdminTokenHash    string `mapstructure:"ADMIN_TOKEN_HASH"`

	// Storage. STORAGE_BACKEND is "file" or "mongo".
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	InventoryFile  string `mapstructure:"INVENTORY_FILE"`
	LedgerFile     string `mapstructure:"LEDGER_FILE"`
	MetadataFile   string `mapstructure:"METADATA_FILE"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatabaseName   string `mapstructure:"DATABASE_NAME"`

	// Negotiation.
	DefaultCapacity       int    `mapstructure:"DEFAULT_CAPACITY"`
	Timezone              string `mapstructure:"TIMEZONE"`
	OfferToken            string `mapstructure:"OFFER_TOKEN"`
	SuppressRepeatReplies bool   `mapstructure:"SUPPRESS_REPEAT_REPLIES"`
	NegotiationChatID     string `mapstructure:"NEGOTIATION_CHAT_ID"`
	AdminChatID           string `mapstructure:"ADMIN_CHAT_ID"`
	ConfirmationChatID    string `mapstructure:"CONFIRMATION_CHAT_ID"`
	HelpText              string `mapstructure:"HELP_TEXT"`

	// Intent extraction. INTENT_PROVIDER is "openai" or "gemini".
	IntentProvider    string  `mapstructure:"INTENT_PROVIDER"`
	OpenAIAPIKey      string  `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel       string  `mapstructure:"OPENAI_MODEL"`
	GeminiAPIKey      string  `mapstructure:"GEMINI_API_KEY"`
	GeminiModel       string  `mapstructure:"GEMINI_MODEL"`
	LLMRequestsPerSec float64 `mapstructure:"LLM_REQUESTS_PER_SEC"`

	// WhatsApp delivery.
	WhapiAPIKey string `mapstructure:"WHAPI_API_KEY"`
	WhapiURL    string `mapstructure:"WHAPI_URL"`

	// Redis configuration.
	RedisEnabled   bool          `mapstructure:"REDIS_ENABLED"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int           `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int           `mapstructure:"REDIS_QUEUE_DB"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	DedupeTTL      time.Duration `mapstructure:"DEDUPE_TTL"`

	// Empty disables the scheduled report.
	DailyReportCron string `mapstructure:"DAILY_REPORT_CRON"`
}

var AppConfig Config

const defaultHelpText = `Commands:
- enable agent / disable agent
- rooms booked [date]
- rooms empty [date]
- report
- set <date> to <n> rooms
- set trusted number <phone>
- trusted number
- help`

// LoadConfig reads config.yaml (or the file given by configFile) and the
// environment into AppConfig.
func LoadConfig(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Look for a config file named "config.yaml" in the current and "config" directory.
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("ADMIN_TOKEN_HASH", "")
	viper.SetDefault("STORAGE_BACKEND", "file")
	viper.SetDefault("INVENTORY_FILE", "data/inventory.json")
	viper.SetDefault("LEDGER_FILE", "data/ledger.json")
	viper.SetDefault("METADATA_FILE", "data/metadata.json")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "roomdesk")
	viper.SetDefault("DEFAULT_CAPACITY", 10)
	viper.SetDefault("TIMEZONE", "Local")
	viper.SetDefault("OFFER_TOKEN", "RP Can")
	viper.SetDefault("SUPPRESS_REPEAT_REPLIES", false)
	viper.SetDefault("NEGOTIATION_CHAT_ID", "")
	viper.SetDefault("ADMIN_CHAT_ID", "")
	viper.SetDefault("CONFIRMATION_CHAT_ID", "")
	viper.SetDefault("HELP_TEXT", defaultHelpText)
	viper.SetDefault("INTENT_PROVIDER", "openai")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("LLM_REQUESTS_PER_SEC", 3)
	viper.SetDefault("WHAPI_API_KEY", "")
	viper.SetDefault("WHAPI_URL", "https://gate.whapi.cloud/messages/text")
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("SESSION_TTL", "72h")
	viper.SetDefault("DEDUPE_TTL", "24h")
	viper.SetDefault("DAILY_REPORT_CRON", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves TIMEZONE, falling back to the process local zone.
func Location() *time.Location {
	if AppConfig.Timezone == "" || strings.EqualFold(AppConfig.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, using local time", AppConfig.Timezone)
		return time.Local
	}
	return loc
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(AppConfig.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

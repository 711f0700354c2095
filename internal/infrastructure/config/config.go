package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (ignores error if not found)
	godotenv.Load()
}

type Config struct {
	Port         string
	DatabasePath string
	LogLevel     string
	LogFormat    string

	// OpenAI compatible chat completions
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OpenAIModel         string
	OpenAIMaxTokens     int
	OpenAITemperature   float32
	OpenAIRatePerMinute int

	// Microsoft Graph (Outlook, OneDrive)
	GraphClientID     string
	GraphClientSecret string
	GraphTenantID     string
	GraphUser         string
	GraphEndpoint     string
	LoginEndpoint     string

	// Gmail
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	GmailAPIEndpoint  string
	GmailTokenURL     string

	// TimeTree
	TimeTreeAccessToken string
	TimeTreeCalendarID  string
	TimeTreeEndpoint    string

	// File sorting
	SortWorkers       int
	SortLockTimeout   time.Duration
	LockDir           string
	CategoryTablePath string

	AccessTokenHash string
	AllowedOrigins  []string
	HistoryLimit    int
	SyncTimeout     time.Duration
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "5000"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/darion.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),

		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIMaxTokens:     int(getEnvAsInt64("OPENAI_MAX_TOKENS", 150)),
		OpenAITemperature:   float32(getEnvAsFloat("OPENAI_TEMPERATURE", 0.7)),
		OpenAIRatePerMinute: int(getEnvAsInt64("OPENAI_RATE_PER_MINUTE", 60)),

		GraphClientID:     getEnv("MS_GRAPH_CLIENT_ID", ""),
		GraphClientSecret: getEnv("MS_GRAPH_CLIENT_SECRET", ""),
		GraphTenantID:     getEnv("MS_GRAPH_TENANT_ID", ""),
		GraphUser:         getEnv("MS_GRAPH_USER", ""),
		GraphEndpoint:     getEnv("MS_GRAPH_ENDPOINT", "https://graph.microsoft.com/v1.0"),
		LoginEndpoint:     getEnv("MS_LOGIN_ENDPOINT", "https://login.microsoftonline.com"),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		GmailAPIEndpoint:  getEnv("GMAIL_API_ENDPOINT", "https://gmail.googleapis.com/gmail/v1"),
		GmailTokenURL:     getEnv("GMAIL_TOKEN_URL", ""),

		TimeTreeAccessToken: getEnv("TIMETREE_ACCESS_TOKEN", ""),
		TimeTreeCalendarID:  getEnv("TIMETREE_CALENDAR_ID", ""),
		TimeTreeEndpoint:    getEnv("TIMETREE_API_ENDPOINT", "https://timetreeapis.com"),

		SortWorkers:       int(getEnvAsInt64("SORT_WORKERS", 4)),
		SortLockTimeout:   time.Duration(getEnvAsInt64("SORT_LOCK_TIMEOUT_SEC", 5)) * time.Second,
		LockDir:           getEnv("LOCK_DIR", ""),
		CategoryTablePath: getEnv("CATEGORY_TABLE_PATH", ""),

		AccessTokenHash: getEnv("ACCESS_TOKEN_HASH", ""),
		AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		HistoryLimit:    int(getEnvAsInt64("HISTORY_LIMIT", 10)),
		SyncTimeout:     time.Duration(getEnvAsInt64("SYNC_TIMEOUT_SEC", 30)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping empty items
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// GeminiConfig holds the generative API credentials and model selection.
type GeminiConfig struct {
	APIKeys         []string
	Model           string
	TimeoutSeconds  int
	MaxOutputTokens int
}

// PrimaryKey returns the first configured API key, or "".
func (g GeminiConfig) PrimaryKey() string {
	if len(g.APIKeys) == 0 {
		return ""
	}
	return g.APIKeys[0]
}

// LoggingConfig controls slog output and file rotation.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig holds the listener settings.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
}

// HTTPAuthConfig holds the optional shared API key for the /api surface.
type HTTPAuthConfig struct {
	APIKey string
}

// HTTPRateLimitConfig holds the per-identity request limit settings.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	CacheSize         int
	CacheTTLSeconds   int
}

// DatabaseConfig holds Postgres connection and pool settings.
type DatabaseConfig struct {
	Host                   string
	Port                   int
	Name                   string
	User                   string
	Password               string
	MinPool                int
	MaxPool                int
	ConnMaxLifetimeMinutes int
}

// DSN returns the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme: "postgresql",
		Host:   host,
		Path:   "/" + d.Name,
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// ChatConfig bounds how much stored history is replayed to the model.
type ChatConfig struct {
	HistoryMaxTurns int
}

// ChatCacheConfig holds the Valkey chat-document cache settings.
type ChatCacheConfig struct {
	URL          string
	Enabled      bool
	Required     bool
	DisableCache bool
	TTLMinutes   int
}

// Config is the full application configuration.
type Config struct {
	Gemini        GeminiConfig
	Logging       LoggingConfig
	HTTP          HTTPConfig
	HTTPAuth      HTTPAuthConfig
	HTTPRateLimit HTTPRateLimitConfig
	Database      DatabaseConfig
	Chat          ChatConfig
	ChatCache     ChatCacheConfig
}

// Load reads configuration from the environment once.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig loads and validates the configuration.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural constraints. A missing Gemini key is not an
// error here: the server starts and AI routes fail per call.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTP.Port)
	}
	if c.Gemini.Model == "" {
		return errors.New("gemini model must not be empty")
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid gemini timeout: %d", c.Gemini.TimeoutSeconds)
	}
	return nil
}

// LogEnvStatus logs the effective environment at startup with secrets masked.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	logger.Debug(
		"env_status",
		"env_file", fileExists(".env"),
		"gemini_keys", len(cfg.Gemini.APIKeys),
		"primary_key", maskSecret(cfg.Gemini.PrimaryKey()),
		"model", cfg.Gemini.Model,
		"timeout", cfg.Gemini.TimeoutSeconds,
		"db_host", cfg.Database.Host,
		"db_name", cfg.Database.Name,
		"chat_cache_url", cfg.ChatCache.URL,
		"chat_history_max_turns", cfg.Chat.HistoryMaxTurns,
	)

	if len(cfg.Gemini.APIKeys) == 0 {
		logger.Error("env_missing_google_api_key")
	}
}

func buildConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			APIKeys:         parseAPIKeys(),
			Model:           getEnvString("GEMINI_MODEL", "gemini-2.5-flash"),
			TimeoutSeconds:  getEnvInt("GEMINI_TIMEOUT", 60),
			MaxOutputTokens: getEnvInt("GEMINI_MAX_TOKENS", 1024),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:         getEnvString("HTTP_HOST", "127.0.0.1"),
			Port:         getEnvInt("HTTP_PORT", 8080),
			HTTP2Enabled: getEnvBool("HTTP2_ENABLED", true),
		},
		HTTPAuth: HTTPAuthConfig{
			APIKey: getEnvString("HTTP_API_KEY", ""),
		},
		HTTPRateLimit: HTTPRateLimitConfig{
			RequestsPerMinute: getEnvNonNegativeInt("HTTP_RATE_LIMIT_RPM", 0),
			CacheSize:         max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_SIZE", 10000)),
			CacheTTLSeconds:   max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_TTL_SECONDS", 120)),
		},
		Database: DatabaseConfig{
			Host:                   getEnvString("DB_HOST", "localhost"),
			Port:                   getEnvInt("DB_PORT", 5432),
			Name:                   getEnvString("DB_NAME", "studyace"),
			User:                   getEnvString("DB_USER", "studyace"),
			Password:               getEnvString("DB_PASSWORD", ""),
			MinPool:                getEnvInt("DB_MIN_POOL", 1),
			MaxPool:                getEnvInt("DB_MAX_POOL", 10),
			ConnMaxLifetimeMinutes: getEnvNonNegativeInt("DB_CONN_MAX_LIFETIME_MINUTES", 30),
		},
		Chat: ChatConfig{
			HistoryMaxTurns: getEnvNonNegativeInt("CHAT_HISTORY_MAX_TURNS", 40),
		},
		ChatCache: ChatCacheConfig{
			URL:          getEnvString("CHAT_CACHE_URL", "redis://localhost:6379"),
			Enabled:      getEnvBool("CHAT_CACHE_ENABLED", false),
			Required:     getEnvBool("CHAT_CACHE_REQUIRED", false),
			DisableCache: getEnvBool("CHAT_CACHE_DISABLE_CLIENT_CACHE", false),
			TTLMinutes:   max(1, getEnvNonNegativeInt("CHAT_CACHE_TTL_MINUTES", 1440)),
		},
	}
}

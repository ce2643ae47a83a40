package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as HTTP server settings, logging, analysis history and its Postgres database.
//
// Example ENV:
//
//	PORT=5000
//	LOG_LEVEL=info
//	CORS_ALLOWED_ORIGINS=https://app.example.com,https://admin.example.com
//	RATE_LIMIT_RPS=5
//	HISTORY_ENABLED=true
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=tradewindow
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Log      LogConfig      // Logger configuration
	History  HistoryConfig  // Analysis history toggle
	Postgres PostgresConfig // PostgreSQL connection settings (used only with history)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        // TCP port the HTTP server listens on (e.g., "5000")
	RequestTimeout time.Duration // Per-request context deadline
	MaxUploadBytes int64         // Request body cap
	AllowedOrigins []string      // CORS origins; "*" allows all
	RateLimitRPS   float64       // Per-IP refill rate; 0 disables limiting
	RateLimitBurst int           // Per-IP bucket size
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// HistoryConfig controls persistence of analyses. When disabled the service
// keeps no state and never touches the database.
type HistoryConfig struct {
	Enabled bool
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - ConnectRetries: attempts made before giving up at startup.
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	ConnectRetries int
	URL            string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("PORT"),
			RequestTimeout: viper.GetDuration("REQUEST_TIMEOUT"),
			MaxUploadBytes: viper.GetInt64("MAX_UPLOAD_MB") << 20,
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimitRPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
		},
		History: HistoryConfig{
			Enabled: viper.GetBool("HISTORY_ENABLED"),
		},
		Postgres: PostgresConfig{
			Host:           viper.GetString("POSTGRES_HOST"),
			Port:           viper.GetInt("POSTGRES_PORT"),
			User:           viper.GetString("POSTGRES_USER"),
			Password:       viper.GetString("POSTGRES_PASSWORD"),
			DBName:         viper.GetString("POSTGRES_DB"),
			SSLMode:        viper.GetString("POSTGRES_SSLMODE"),
			ConnectRetries: viper.GetInt("POSTGRES_CONNECT_RETRIES"),
		},
	}

	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

func setDefaults() {
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 60)
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("MAX_UPLOAD_MB", 8)

	viper.SetDefault("HISTORY_ENABLED", false)
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "tradewindow")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_CONNECT_RETRIES", 5)
}

// splitList parses a comma separated env value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing or invalid.
//
// Postgres settings are only required when history is enabled.
func validateConfig() {
	if problems := checkConfig(AppConfig); len(problems) > 0 {
		log.Fatalf("❌ Invalid configuration: %v\n", problems)
	}
}

func checkConfig(cfg Config) []string {
	var problems []string

	if cfg.Server.Port == "" {
		problems = append(problems, "PORT")
	}
	if cfg.Server.RequestTimeout < 0 {
		problems = append(problems, "REQUEST_TIMEOUT must not be negative")
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		problems = append(problems, "MAX_UPLOAD_MB must be positive")
	}
	if cfg.Server.RateLimitRPS < 0 {
		problems = append(problems, "RATE_LIMIT_RPS must not be negative")
	}

	if !cfg.History.Enabled {
		return problems
	}
	if cfg.Postgres.Host == "" {
		problems = append(problems, "POSTGRES_HOST")
	}
	if cfg.Postgres.Port == 0 {
		problems = append(problems, "POSTGRES_PORT")
	}
	if cfg.Postgres.User == "" {
		problems = append(problems, "POSTGRES_USER")
	}
	if cfg.Postgres.Password == "" {
		problems = append(problems, "POSTGRES_PASSWORD")
	}
	if cfg.Postgres.DBName == "" {
		problems = append(problems, "POSTGRES_DB")
	}
	return problems
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	HTTPPort           string
	DatabaseDriver     string
	DatabaseURL        string
	Location           *time.Location
	CORSAllowedOrigins []string
	GinMode            string
	LogLevel           logrus.Level
	StaticIndex        string
	TelegramToken      string
	TelegramDebug      bool
}

var instance *AppConfig
var once sync.Once

// GetAppConfig loads the configuration once and exits the process if it is invalid.
func GetAppConfig() *AppConfig {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Debugf("no .env file loaded: %s", err.Error())
		}

		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("invalid configuration: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load reads the configuration from the process environment.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:    getEnv("DATABASE_URL", "timeclock.db"),
		GinMode:        getEnv("GIN_MODE", "release"),
		StaticIndex:    getEnv("STATIC_INDEX", ""),
		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramDebug:  getEnvAsBool("TELEGRAM_DEBUG", false),
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("could not get db url")
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	for _, origin := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if port, err := strconv.Atoi(cfg.HTTPPort); err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid HTTP_PORT %q", cfg.HTTPPort)
	}

	return cfg, nil
}

// BotEnabled reports whether the Telegram surface should be started.
func (c *AppConfig) BotEnabled() bool {
	return c.TelegramToken != ""
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	TelegramToken string
	OwnerChatID   int64
	DatabaseURL   string
	FixedRate     float64
	HolidaysFile  string
	LogLevel      logrus.Level
	BotDebug      bool
}

var (
	instance *Config
	loadErr  error
	once     sync.Once
)

// Get загружает конфиг один раз из .env и переменных окружения
func Get() (*Config, error) {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Warnf("no .env file loaded: %s", err.Error())
		}
		instance, loadErr = Load()
	})

	return instance, loadErr
}

// Load читает конфиг из окружения без кэширования
func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		OwnerChatID:   getEnvAsInt("OWNER_CHAT_ID", 0),
		DatabaseURL:   getEnv("DATABASE_URL", "data/work_data.db"),
		FixedRate:     getEnvAsFloat("FIXED_RATE", 0.67),
		HolidaysFile:  getEnv("HOLIDAYS_FILE", ""),
		BotDebug:      getEnvAsBool("BOT_DEBUG", false),
		LogLevel:      logrus.InfoLevel,
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("could not get bot token")
	}
	if cfg.OwnerChatID == 0 {
		return nil, fmt.Errorf("could not get owner chat id")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("could not get db url")
	}
	if cfg.FixedRate < 0 {
		return nil, fmt.Errorf("fixed rate must be non-negative, got %v", cfg.FixedRate)
	}

	if lvl := getEnv("LOG_LEVEL", ""); lvl != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(lvl))
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = parsed
	}

	return cfg, nil
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

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsFloat(name string, defaultVal float64) float64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseFloat(valStr, 64); err == nil {
		return val
	}

	return defaultVal
}

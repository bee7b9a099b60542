package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log    Logger   `mapstructure:"logger"`
	DB     Database `mapstructure:"database"`
	API    API      `mapstructure:"api"`
	Schwab Schwab   `mapstructure:"schwab"`
	Cache  Cache    `mapstructure:"cache"`
	Market Market   `mapstructure:"market"`
	Health Health   `mapstructure:"health"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	URL             string `mapstructure:"url"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Schwab struct {
	AppKey              string        `mapstructure:"app_key"`
	AppSecret           string        `mapstructure:"app_secret"`
	CallbackURL         string        `mapstructure:"callback_url"`
	BaseURL             string        `mapstructure:"base_url"`
	AuthBaseURL         string        `mapstructure:"auth_base_url"`
	StreamerURL         string        `mapstructure:"streamer_url"`
	TokensFile          string        `mapstructure:"tokens_file"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	QuoteExpiration   time.Duration `mapstructure:"quote_expiration"`
}

type Market struct {
	RetentionDays     int    `mapstructure:"retention_days"`
	RetentionSchedule string `mapstructure:"retention_schedule"`
}

type Health struct {
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

// Load reads configuration from config.yaml (optional) and the environment.
// The flat env names APP_KEY, APP_SECRET, CALLBACK_URL, DATABASE_URL and PORT
// are the deployment contract and are bound onto nested keys explicitly.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	bindings := map[string]string{
		"schwab.app_key":      "APP_KEY",
		"schwab.app_secret":   "APP_SECRET",
		"schwab.callback_url": "CALLBACK_URL",
		"database.url":        "DATABASE_URL",
		"api.port":            "PORT",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8000)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.max_open_conns", 20)
	viper.SetDefault("database.log_level", "Warn")
	viper.SetDefault("schwab.callback_url", "https://127.0.0.1")
	viper.SetDefault("schwab.base_url", "https://api.schwabapi.com")
	viper.SetDefault("schwab.auth_base_url", "https://api.schwabapi.com/v1/oauth")
	viper.SetDefault("schwab.tokens_file", "tokens.json")
	viper.SetDefault("schwab.timeout", 30*time.Second)
	viper.SetDefault("schwab.max_request_per_minute", 120)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("cache.quote_expiration", 5*time.Second)
	viper.SetDefault("market.retention_days", 0)
	viper.SetDefault("market.retention_schedule", "0 3 * * *")
	viper.SetDefault("health.probe_timeout", 5*time.Second)
}

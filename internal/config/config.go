package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseDatabaseURL           string `mapstructure:"FIREBASE_DATABASE_URL"`
	FirebaseWebAPIKey             string `mapstructure:"FIREBASE_WEB_API_KEY"`
	FirebaseCredentialsFile       string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseCredentialsJSONBase64 string `mapstructure:"FIREBASE_CREDENTIALS_JSON_BASE64"`

	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int    `mapstructure:"REDIS_DB"`
	CacheTTLSeconds int    `mapstructure:"CACHE_TTL_SECONDS"`

	ClientURL string `mapstructure:"CLIENT_URL"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
}

var appConfig *Config

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("LOG_LEVEL", "info")

	// Bind environment variables
	viper.BindEnv("PORT")
	viper.BindEnv("GIN_MODE")
	viper.BindEnv("FIREBASE_PROJECT_ID")
	viper.BindEnv("FIREBASE_DATABASE_URL")
	viper.BindEnv("FIREBASE_WEB_API_KEY")
	viper.BindEnv("FIREBASE_CREDENTIALS_FILE")
	viper.BindEnv("FIREBASE_CREDENTIALS_JSON_BASE64")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("REDIS_PASSWORD")
	viper.BindEnv("REDIS_DB")
	viper.BindEnv("CACHE_TTL_SECONDS")
	viper.BindEnv("CLIENT_URL")
	viper.BindEnv("LOG_LEVEL")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	// Validate required fields
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.FirebaseDatabaseURL == "" {
		return nil, errors.New("FIREBASE_DATABASE_URL is required")
	}
	if cfg.FirebaseWebAPIKey == "" {
		return nil, errors.New("FIREBASE_WEB_API_KEY is required")
	}

	appConfig = &cfg
	return appConfig, nil
}

// GetConfig returns the loaded application configuration.
// It will panic if LoadConfig has not been called successfully.
func GetConfig() *Config {
	if appConfig == nil {
		panic("config not loaded; call LoadConfig first")
	}
	return appConfig
}

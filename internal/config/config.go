package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Logger   Logger   `mapstructure:"logger"`
	Gemini   Gemini   `mapstructure:"gemini"`
	Journal  Journal  `mapstructure:"journal"`
}

// Server holds the configuration for the HTTP server.
type Server struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Gemini holds the configuration for the Gemini API client.
type Gemini struct {
	APIKey         string  `mapstructure:"api_key"`
	BaseURL        string  `mapstructure:"base_url"`
	TextModel      string  `mapstructure:"text_model"`
	ImageModel     string  `mapstructure:"image_model"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Journal holds journal-specific settings, including the demo account
// seeded on first start.
type Journal struct {
	DemoEmail   string  `mapstructure:"demo_email"`
	DemoCapital float64 `mapstructure:"demo_capital"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.cors_origins", []string{"*"})
	viper.SetDefault("database.dsn", "trading_journal.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	// api_key needs a default too: without a registered key, the
	// GEMINI_API_KEY env override never reaches Unmarshal.
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("gemini.text_model", "gemini-3-flash-preview")
	viper.SetDefault("gemini.image_model", "gemini-2.5-flash-image")
	viper.SetDefault("gemini.timeout_seconds", 30)
	viper.SetDefault("gemini.rate_limit", 2) // requests per second
	viper.SetDefault("gemini.rate_limit_burst", 2)
	viper.SetDefault("journal.demo_email", "demo@example.com")
	viper.SetDefault("journal.demo_capital", 100000)

	err = viper.ReadInConfig()
	if err != nil {
		// A missing config file is fine; defaults and env vars still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
	}

	err = viper.Unmarshal(&config)
	return
}

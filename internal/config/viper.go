// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/clarity-ledger/internal/ai"
	"fjacquet/clarity-ledger/internal/models"
	"fjacquet/clarity-ledger/internal/ocr"
	"fjacquet/clarity-ledger/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. CLARITY_LOG_LEVEL.
const EnvPrefix = "CLARITY"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		Backend   string `mapstructure:"backend" yaml:"backend"`
		Directory string `mapstructure:"directory" yaml:"directory"`
		UserID    string `mapstructure:"user_id" yaml:"user_id"`
	} `mapstructure:"data" yaml:"data"`

	Currency string `mapstructure:"currency" yaml:"currency"`
	Language string `mapstructure:"language" yaml:"language"`

	AI struct {
		Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
		Provider          string `mapstructure:"provider" yaml:"provider"`
		Model             string `mapstructure:"model" yaml:"model"`
		OCRModel          string `mapstructure:"ocr_model" yaml:"ocr_model"`
		BaseURL           string `mapstructure:"base_url" yaml:"base_url"`
		RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
		TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey            string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	OCR struct {
		Binary    string `mapstructure:"binary" yaml:"binary"`
		Languages string `mapstructure:"languages" yaml:"languages"`
		PSM       int    `mapstructure:"psm" yaml:"psm"`
	} `mapstructure:"ocr" yaml:"ocr"`

	Extraction struct {
		RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
	} `mapstructure:"extraction" yaml:"extraction"`

	Report struct {
		TrendMonths int `mapstructure:"trend_months" yaml:"trend_months"`
	} `mapstructure:"report" yaml:"report"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Server struct {
		Address string `mapstructure:"address" yaml:"address"`
	} `mapstructure:"server" yaml:"server"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile works like InitializeConfig but reads the given
// file instead of searching the default locations. An empty path searches.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.clarity")
		v.AddConfigPath(".clarity")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Provider keys come from their conventional unprefixed variables
	if err := v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "OPENROUTER_API_KEY", "GEMINI_API_KEY"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind AI API key environment variables: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.backend", store.BackendFile)
	v.SetDefault("data.directory", "")
	v.SetDefault("data.user_id", models.DefaultUserID)

	v.SetDefault("currency", models.DefaultCurrencyCode)
	v.SetDefault("language", string(models.LanguageEnglish))

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", ai.ProviderOpenRouter)
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.ocr_model", "")
	v.SetDefault("ai.base_url", ai.DefaultBaseURL)
	v.SetDefault("ai.requests_per_minute", 10)
	v.SetDefault("ai.timeout_seconds", int(ai.DefaultTimeout/time.Second))

	v.SetDefault("ocr.binary", "tesseract")
	v.SetDefault("ocr.languages", ocr.DefaultLanguages)
	v.SetDefault("ocr.psm", ocr.DefaultPSM)

	v.SetDefault("extraction.rules_file", "")
	v.SetDefault("report.trend_months", 6)
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("server.address", "127.0.0.1:8080")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Data.Backend {
	case store.BackendFile, store.BackendSQLite, store.BackendMemory:
	default:
		return fmt.Errorf("invalid data backend: %s (must be 'file', 'sqlite' or 'memory')", config.Data.Backend)
	}

	if strings.TrimSpace(config.Data.UserID) == "" {
		return fmt.Errorf("data.user_id must not be empty")
	}

	if _, ok := models.LookupCurrency(config.Currency); !ok {
		return fmt.Errorf("unsupported currency: %s", config.Currency)
	}

	if !models.Language(config.Language).IsValid() {
		return fmt.Errorf("unsupported language: %s (must be 'en' or 'zh-TW')", config.Language)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Report.TrendMonths < 1 || config.Report.TrendMonths > 60 {
		return fmt.Errorf("report.trend_months must be between 1 and 60, got: %d", config.Report.TrendMonths)
	}

	if config.OCR.PSM < 0 || config.OCR.PSM > 13 {
		return fmt.Errorf("ocr.psm must be between 0 and 13, got: %d", config.OCR.PSM)
	}

	if config.AI.Enabled {
		if config.AI.Provider != ai.ProviderOpenRouter && config.AI.Provider != ai.ProviderGemini {
			return fmt.Errorf("invalid ai.provider: %s (must be 'openrouter' or 'gemini')", config.AI.Provider)
		}

		if config.AI.RequestsPerMinute < 1 || config.AI.RequestsPerMinute > 1000 {
			return fmt.Errorf("ai.requests_per_minute must be between 1 and 1000, got: %d", config.AI.RequestsPerMinute)
		}

		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	return nil
}

// Validate re-checks the configuration, e.g. after command-line overrides.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// DataDir returns the configured data directory, defaulting to
// $HOME/.clarity/data.
func (c *Config) DataDir() string {
	if c.Data.Directory != "" {
		return c.Data.Directory
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".clarity", "data")
	}
	return filepath.Join(home, ".clarity", "data")
}

// CSVDelimiter returns the CSV delimiter as a rune.
func (c *Config) CSVDelimiter() rune {
	for _, r := range c.CSV.Delimiter {
		return r
	}
	return ','
}

// CurrencyInfo returns the display currency.
func (c *Config) CurrencyInfo() models.Currency {
	return models.CurrencyOrDefault(c.Currency)
}

// AIClientConfig converts the ai section into the client configuration.
// A disabled section yields a config without key, so every request fails
// with a missing-credential error.
func (c *Config) AIClientConfig() ai.Config {
	cfg := ai.Config{
		Provider:          c.AI.Provider,
		Model:             c.AI.Model,
		OCRModel:          c.AI.OCRModel,
		BaseURL:           c.AI.BaseURL,
		RequestsPerMinute: c.AI.RequestsPerMinute,
		Timeout:           time.Duration(c.AI.TimeoutSeconds) * time.Second,
	}
	if c.AI.Enabled {
		cfg.APIKey = c.AI.APIKey
	}
	return cfg
}

// TesseractConfig returns the OCR engine configuration.
func (c *Config) TesseractConfig() ocr.TesseractConfig {
	return ocr.TesseractConfig{Binary: c.OCR.Binary, PSM: c.OCR.PSM}
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/clarity-ledger/internal/ai"
	"fjacquet/clarity-ledger/internal/models"
	"fjacquet/clarity-ledger/internal/store"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, store.BackendFile, config.Data.Backend)
	assert.Equal(t, models.DefaultUserID, config.Data.UserID)
	assert.Equal(t, "USD", config.Currency)
	assert.Equal(t, "en", config.Language)
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, ai.ProviderOpenRouter, config.AI.Provider)
	assert.Equal(t, ai.DefaultBaseURL, config.AI.BaseURL)
	assert.Equal(t, 10, config.AI.RequestsPerMinute)
	assert.Equal(t, 60, config.AI.TimeoutSeconds)
	assert.Empty(t, config.AI.APIKey)
	assert.Equal(t, "tesseract", config.OCR.Binary)
	assert.Equal(t, "eng+chi_tra", config.OCR.Languages)
	assert.Equal(t, 3, config.OCR.PSM)
	assert.Equal(t, 6, config.Report.TrendMonths)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "127.0.0.1:8080", config.Server.Address)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	testEnvVars := map[string]string{
		"CLARITY_LOG_LEVEL":              "debug",
		"CLARITY_LOG_FORMAT":             "json",
		"CLARITY_DATA_BACKEND":           "sqlite",
		"CLARITY_CURRENCY":               "TWD",
		"CLARITY_LANGUAGE":               "zh-TW",
		"CLARITY_AI_PROVIDER":            "gemini",
		"CLARITY_AI_MODEL":               "gemini-1.5-pro",
		"CLARITY_AI_REQUESTS_PER_MINUTE": "15",
		"CLARITY_CSV_DELIMITER":          ";",
		"GEMINI_API_KEY":                 "test-api-key",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, store.BackendSQLite, config.Data.Backend)
	assert.Equal(t, "TWD", config.Currency)
	assert.Equal(t, "zh-TW", config.Language)
	assert.Equal(t, ai.ProviderGemini, config.AI.Provider)
	assert.Equal(t, "gemini-1.5-pro", config.AI.Model)
	assert.Equal(t, 15, config.AI.RequestsPerMinute)
	assert.Equal(t, ';', config.CSVDelimiter())
	assert.Equal(t, "test-api-key", config.AI.APIKey)
}

func TestInitializeConfig_OpenRouterKey(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", "or-key")

	config, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "or-key", config.AI.APIKey)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
  format: "json"
data:
  backend: "memory"
  directory: "/tmp/clarity-test"
currency: "EUR"
ai:
  enabled: false
  model: "openai/gpt-4o"
  ocr_model: "qwen/qwen-vl"
report:
  trend_months: 12
csv:
  delimiter: "|"
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))
	t.Chdir(tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, store.BackendMemory, config.Data.Backend)
	assert.Equal(t, "/tmp/clarity-test", config.DataDir())
	assert.Equal(t, "EUR", config.CurrencyInfo().Code)
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, "openai/gpt-4o", config.AI.Model)
	assert.Equal(t, 12, config.Report.TrendMonths)
	assert.Equal(t, '|', config.CSVDelimiter())

	aiCfg := config.AIClientConfig()
	assert.Equal(t, "qwen/qwen-vl", aiCfg.ReceiptModel())
	assert.Equal(t, "openai/gpt-4o", aiCfg.ChatModel())
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
csv:
  delimiter: "|"
ai:
  requests_per_minute: 20
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))

	t.Setenv("CLARITY_LOG_LEVEL", "error")
	t.Setenv("CLARITY_AI_REQUESTS_PER_MINUTE", "25")
	t.Setenv("OPENROUTER_API_KEY", "env-api-key")
	t.Chdir(tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)       // env var wins
	assert.Equal(t, "|", config.CSV.Delimiter)       // config file value
	assert.Equal(t, 25, config.AI.RequestsPerMinute) // env var wins
	assert.Equal(t, "env-api-key", config.AI.APIKey)
}

func TestInitializeConfigFromFile(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("currency: GBP\n"), 0600))

		config, err := InitializeConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "GBP", config.Currency)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := InitializeConfigFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid value in file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("currency: XYZ\n"), 0600))

		_, err := InitializeConfigFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported currency")
	})
}

func validConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Data.Backend = store.BackendFile
	c.Data.UserID = models.DefaultUserID
	c.Currency = "USD"
	c.Language = "en"
	c.AI.Enabled = true
	c.AI.Provider = ai.ProviderOpenRouter
	c.AI.RequestsPerMinute = 10
	c.AI.TimeoutSeconds = 30
	c.OCR.PSM = 3
	c.Report.TrendMonths = 6
	c.CSV.Delimiter = ","
	return c
}

func TestValidateConfig_Valid(t *testing.T) {
	assert.NoError(t, validateConfig(validConfig()))
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "unknown backend",
			modifyConfig: func(c *Config) { c.Data.Backend = "postgres" },
			expectError:  "invalid data backend",
		},
		{
			name:         "empty user id",
			modifyConfig: func(c *Config) { c.Data.UserID = "  " },
			expectError:  "data.user_id must not be empty",
		},
		{
			name:         "unknown currency",
			modifyConfig: func(c *Config) { c.Currency = "XYZ" },
			expectError:  "unsupported currency",
		},
		{
			name:         "unknown language",
			modifyConfig: func(c *Config) { c.Language = "fr" },
			expectError:  "unsupported language",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "abc" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "trend months out of range",
			modifyConfig: func(c *Config) { c.Report.TrendMonths = 0 },
			expectError:  "report.trend_months must be between 1 and 60",
		},
		{
			name:         "psm out of range",
			modifyConfig: func(c *Config) { c.OCR.PSM = 14 },
			expectError:  "ocr.psm must be between 0 and 13",
		},
		{
			name:         "unknown provider",
			modifyConfig: func(c *Config) { c.AI.Provider = "anthropic" },
			expectError:  "invalid ai.provider",
		},
		{
			name:         "invalid requests per minute",
			modifyConfig: func(c *Config) { c.AI.RequestsPerMinute = 0 },
			expectError:  "ai.requests_per_minute must be between 1 and 1000",
		},
		{
			name:         "invalid timeout seconds",
			modifyConfig: func(c *Config) { c.AI.TimeoutSeconds = 0 },
			expectError:  "ai.timeout_seconds must be between 1 and 300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestValidateConfig_DisabledAISkipsProviderChecks(t *testing.T) {
	config := validConfig()
	config.AI.Enabled = false
	config.AI.Provider = "anything"
	config.AI.RequestsPerMinute = 0
	assert.NoError(t, validateConfig(config))
}

func TestAIClientConfig(t *testing.T) {
	config := validConfig()
	config.AI.APIKey = "secret"
	config.AI.TimeoutSeconds = 45

	cfg := config.AIClientConfig()
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, ai.DefaultModel, cfg.ChatModel())

	config.AI.Enabled = false
	assert.Empty(t, config.AIClientConfig().APIKey)
}

func TestDataDirDefault(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	config := validConfig()
	assert.Equal(t, filepath.Join("/home/tester", ".clarity", "data"), config.DataDir())
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
		want   logrus.Level
		json   bool
	}{
		{name: "text format info level", level: "info", format: "text", want: logrus.InfoLevel},
		{name: "json format debug level", level: "debug", format: "json", want: logrus.DebugLevel, json: true},
		{name: "unknown level falls back to info", level: "loud", format: "text", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			config.Log.Level = tt.level
			config.Log.Format = tt.format

			logger := ConfigureLoggingFromConfig(config)
			require.NotNil(t, logger)
			assert.Equal(t, tt.want, logger.GetLevel())
			_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.json, isJSON)
			assert.NotNil(t, config.NewLogger())
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CLARITY_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("CLARITY_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("CLARITY_TEST_UNSET_VALUE", "fallback"))
}

// clearTestEnvVars blanks every variable the loader reads so the host
// environment cannot leak into the assertions.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	envVars := []string{
		"CLARITY_LOG_LEVEL",
		"CLARITY_LOG_FORMAT",
		"CLARITY_DATA_BACKEND",
		"CLARITY_DATA_DIRECTORY",
		"CLARITY_DATA_USER_ID",
		"CLARITY_CURRENCY",
		"CLARITY_LANGUAGE",
		"CLARITY_AI_ENABLED",
		"CLARITY_AI_PROVIDER",
		"CLARITY_AI_MODEL",
		"CLARITY_AI_OCR_MODEL",
		"CLARITY_AI_BASE_URL",
		"CLARITY_AI_REQUESTS_PER_MINUTE",
		"CLARITY_AI_TIMEOUT_SECONDS",
		"CLARITY_AI_API_KEY",
		"CLARITY_OCR_BINARY",
		"CLARITY_OCR_LANGUAGES",
		"CLARITY_OCR_PSM",
		"CLARITY_EXTRACTION_RULES_FILE",
		"CLARITY_REPORT_TREND_MONTHS",
		"CLARITY_CSV_DELIMITER",
		"CLARITY_SERVER_ADDRESS",
		"OPENROUTER_API_KEY",
		"GEMINI_API_KEY",
	}
	for _, envVar := range envVars {
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
	t.Setenv("HOME", t.TempDir())
}

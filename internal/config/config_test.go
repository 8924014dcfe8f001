package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selectsense/pkg/categorizer"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, categorizer.DefaultOptions(), cfg.ClassifierOptions())
	assert.Equal(t, "together", cfg.Assist.Provider)
	assert.InDelta(t, 0.7, cfg.Assist.Temperature, 1e-6)
	assert.InDelta(t, 0.7, cfg.Assist.TopP, 1e-6)
	assert.Equal(t, 60*time.Second, cfg.Assist.Timeout)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, 12000, cfg.Assist.MaxPageChars)
	assert.Equal(t, 2, cfg.Assist.Retries)
	assert.Equal(t, "localhost:8080", cfg.ListenAddr())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
classifier:
  strategy: cascade
  min_length: 20
assist:
  provider: gemini
  model: gemini-1.5-flash
  timeout: 5s
pricing:
  gemini:
    gemini-1.5-flash:
      input_per_token: 0.000001
      output_per_token: 0.000002
`)
	t.Setenv("SELECTSENSE_SERVER_PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	opts := cfg.ClassifierOptions()
	assert.Equal(t, categorizer.StrategyCascade, opts.Strategy)
	assert.Equal(t, 20, opts.MinLength)
	assert.Equal(t, 10.0, opts.MarkupBonus)

	assert.Equal(t, "gemini", cfg.Assist.Provider)
	assert.Equal(t, "g-key", cfg.Assist.GeminiAPIKey)
	assert.Equal(t, 5*time.Second, cfg.Assist.Timeout)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.InDelta(t, 0.000002, cfg.Pricing["gemini"]["gemini-1.5-flash"].OutputPerToken, 1e-12)
	assert.False(t, cfg.MissingAPIKey())
}

func TestLoadConfig_ProviderKeyFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TOGETHER_API_KEY", "t-key")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "t-key", cfg.Assist.APIKey)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	testCases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown strategy", func(c *Config) { c.Classifier.Strategy = "vote" }, "classifier.strategy"},
		{"negative bonus", func(c *Config) { c.Classifier.MarkupBonus = -1 }, "markup_bonus"},
		{"zero bonus", func(c *Config) { c.Classifier.MarkupBonus = 0 }, "markup_bonus"},
		{"zero min_confidence", func(c *Config) { c.Classifier.MinConfidence = 0 }, "min_confidence"},
		{"zero min_length", func(c *Config) { c.Classifier.MinLength = 0 }, "min_length"},
		{"unknown provider", func(c *Config) { c.Assist.Provider = "llama" }, "assist.provider"},
		{"temperature out of range", func(c *Config) { c.Assist.Temperature = 3 }, "assist.temperature"},
		{"top_p out of range", func(c *Config) { c.Assist.TopP = 1.5 }, "assist.top_p"},
		{"zero timeout", func(c *Config) { c.Assist.Timeout = 0 }, "assist.timeout"},
		{"negative retries", func(c *Config) { c.Assist.Retries = -1 }, "assist.retries"},
		{"negative page cap", func(c *Config) { c.Assist.MaxPageChars = -1 }, "assist.max_page_chars"},
		{"zero concurrency", func(c *Config) { c.Batch.Concurrency = 0 }, "batch.concurrency"},
		{"bad gin mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"negative price", func(c *Config) {
			c.Pricing = map[string]map[string]PricingInfo{"openai": {"m": {InputPerToken: -1}}}
		}, "negative token cost"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig("")
			require.NoError(t, err)
			tc.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestMissingAPIKey(t *testing.T) {
	cfg := &Config{}
	cfg.Assist.Provider = "together"
	assert.True(t, cfg.MissingAPIKey())
	cfg.Assist.APIKey = "k"
	assert.False(t, cfg.MissingAPIKey())

	cfg.Assist.Provider = "gemini"
	assert.True(t, cfg.MissingAPIKey())

	cfg.Assist.Provider = "none"
	assert.False(t, cfg.MissingAPIKey())
}

func TestResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "prompts.yaml")
	got, err := ResolvePath(abs)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("local.yaml", []byte("x: y"), 0o600))
	got, err = ResolvePath("local.yaml")
	require.NoError(t, err)
	assert.Equal(t, "local.yaml", got)

	got, err = ResolvePath("elsewhere.yaml")
	require.NoError(t, err)
	assert.Contains(t, got, filepath.Join(".config", "selectsense", "elsewhere.yaml"))

	_, err = ResolvePath("")
	assert.Error(t, err)
}

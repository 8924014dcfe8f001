package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"selectsense/pkg/categorizer"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

type Config struct {
	Classifier struct {
		Strategy      string  `mapstructure:"strategy"` // "scoring" or "cascade"
		MarkupBonus   float64 `mapstructure:"markup_bonus"`
		MinConfidence float64 `mapstructure:"min_confidence"`
		MinLength     int     `mapstructure:"min_length"`
	} `mapstructure:"classifier"`

	Assist struct {
		Provider     string        `mapstructure:"provider"` // "together", "openai", "gemini" or "none"
		BaseURL      string        `mapstructure:"base_url"`
		APIKey       string        `mapstructure:"api_key"`
		GeminiAPIKey string        `mapstructure:"gemini_api_key"`
		Model        string        `mapstructure:"model"`
		Temperature  float32       `mapstructure:"temperature"`
		TopP         float32       `mapstructure:"top_p"`
		MaxTokens    int           `mapstructure:"max_tokens"`
		Timeout      time.Duration `mapstructure:"timeout"`
		Retries      int           `mapstructure:"retries"`        // attempts after the first failure
		PromptsFile  string        `mapstructure:"prompts_file"`   // YAML template overrides
		MaxPageChars int           `mapstructure:"max_page_chars"` // summarize-page input cap, in runes
	} `mapstructure:"assist"`

	Cache struct {
		DSN string `mapstructure:"dsn"` // empty keeps replies in memory
	} `mapstructure:"cache"`

	Batch struct {
		Concurrency int `mapstructure:"concurrency"`
	} `mapstructure:"batch"`

	Server struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
		Mode string `mapstructure:"mode"` // gin mode: debug, release, test
	} `mapstructure:"server"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`

	// Pricing: map[provider][model] = struct{input_per_token, output_per_token}
	Pricing map[string]map[string]PricingInfo `mapstructure:"pricing"`
}

// SetDefaults registers every known key so environment overrides apply even
// when no config file is present.
func SetDefaults(v *viper.Viper) {
	d := categorizer.DefaultOptions()
	v.SetDefault("classifier.strategy", string(d.Strategy))
	v.SetDefault("classifier.markup_bonus", d.MarkupBonus)
	v.SetDefault("classifier.min_confidence", d.MinConfidence)
	v.SetDefault("classifier.min_length", d.MinLength)

	v.SetDefault("assist.provider", "together")
	v.SetDefault("assist.base_url", "")
	v.SetDefault("assist.api_key", "")
	v.SetDefault("assist.gemini_api_key", "")
	v.SetDefault("assist.model", "")
	v.SetDefault("assist.temperature", 0.7)
	v.SetDefault("assist.top_p", 0.7)
	v.SetDefault("assist.max_tokens", 512)
	v.SetDefault("assist.timeout", "60s")
	v.SetDefault("assist.retries", 2)
	v.SetDefault("assist.prompts_file", "")
	v.SetDefault("assist.max_page_chars", 12000)

	v.SetDefault("cache.dsn", "")
	v.SetDefault("batch.concurrency", 4)

	v.SetDefault("server.addr", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads config.yaml from the working directory, or configFile
// when given, and applies SELECTSENSE_* environment overrides.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".") // Look for config.yaml in the current directory
	}

	// classifier.min_length -> SELECTSENSE_CLASSIFIER_MIN_LENGTH
	v.SetEnvPrefix("SELECTSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider keys are also picked up under their usual names.
	_ = v.BindEnv("assist.api_key", "SELECTSENSE_ASSIST_API_KEY", "TOGETHER_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("assist.gemini_api_key", "SELECTSENSE_ASSIST_GEMINI_API_KEY", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the config file doesn't exist, defaults and env vars apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &config, nil
}

// ClassifierOptions converts the classifier section into categorizer options.
func (c *Config) ClassifierOptions() categorizer.Options {
	return categorizer.Options{
		Strategy:      categorizer.Strategy(strings.ToLower(c.Classifier.Strategy)),
		MarkupBonus:   c.Classifier.MarkupBonus,
		MinConfidence: c.Classifier.MinConfidence,
		MinLength:     c.Classifier.MinLength,
	}
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Addr, c.Server.Port)
}

package config

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"selectsense/pkg/categorizer"
)

var (
	knownProviders  = []string{"together", "openai", "gemini", "none"}
	knownGinModes   = []string{"debug", "release", "test"}
	knownLogFormats = []string{"text", "json"}
)

// Validate checks every section. Missing API keys are not an error here:
// the assist provider is disabled instead, and doctor reports it.
func (c *Config) Validate() error {
	// Classifier config
	switch categorizer.Strategy(strings.ToLower(c.Classifier.Strategy)) {
	case categorizer.StrategyScoring, categorizer.StrategyCascade, "":
	default:
		return fmt.Errorf("classifier.strategy must be one of scoring, cascade (got %q)", c.Classifier.Strategy)
	}
	// Zero would be read as "use the default" by the classifier.
	if c.Classifier.MarkupBonus <= 0 {
		return errors.New("classifier.markup_bonus must be positive")
	}
	if c.Classifier.MinConfidence <= 0 {
		return errors.New("classifier.min_confidence must be positive")
	}
	if c.Classifier.MinLength <= 0 {
		return errors.New("classifier.min_length must be positive; set it to 1 to disable the short-selection fallback")
	}

	// Assist config
	if !oneOf(strings.ToLower(c.Assist.Provider), knownProviders) {
		return fmt.Errorf("assist.provider must be one of %s (got %q)", strings.Join(knownProviders, ", "), c.Assist.Provider)
	}
	if c.Assist.Temperature < 0 || c.Assist.Temperature > 2 {
		return fmt.Errorf("assist.temperature (%.2f) must be between 0 and 2", c.Assist.Temperature)
	}
	if c.Assist.TopP < 0 || c.Assist.TopP > 1 {
		return fmt.Errorf("assist.top_p (%.2f) must be between 0 and 1", c.Assist.TopP)
	}
	if c.Assist.MaxTokens < 0 {
		return errors.New("assist.max_tokens must not be negative")
	}
	if c.Assist.Timeout <= 0 {
		return errors.New("assist.timeout must be positive")
	}
	if c.Assist.Retries < 0 {
		return errors.New("assist.retries must not be negative")
	}
	if c.Assist.MaxPageChars < 0 {
		return errors.New("assist.max_page_chars must not be negative")
	}

	// Batch config
	if c.Batch.Concurrency <= 0 {
		return errors.New("batch.concurrency must be a positive integer")
	}

	// Server config
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Server.Mode != "" && !oneOf(c.Server.Mode, knownGinModes) {
		return fmt.Errorf("server.mode must be one of %s (got %q)", strings.Join(knownGinModes, ", "), c.Server.Mode)
	}

	// Log config
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if !oneOf(c.Log.Format, knownLogFormats) {
		return fmt.Errorf("log.format must be one of %s (got %q)", strings.Join(knownLogFormats, ", "), c.Log.Format)
	}

	// Pricing config (optional, but if present, must be valid)
	for provider, models := range c.Pricing {
		if provider == "" {
			return errors.New("pricing contains an empty provider name")
		}
		for model, price := range models {
			if model == "" {
				return fmt.Errorf("pricing for provider '%s' contains an empty model name", provider)
			}
			if price.InputPerToken < 0 || price.OutputPerToken < 0 {
				return fmt.Errorf("pricing for provider '%s', model '%s' has negative token cost", provider, model)
			}
		}
	}

	return nil
}

// MissingAPIKey reports whether the configured provider needs a key that is
// not set.
func (c *Config) MissingAPIKey() bool {
	switch strings.ToLower(c.Assist.Provider) {
	case "gemini":
		return c.Assist.GeminiAPIKey == ""
	case "none":
		return false
	default:
		return c.Assist.APIKey == ""
	}
}

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

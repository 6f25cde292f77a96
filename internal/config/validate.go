package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateOrdering(); err != nil {
		return err
	}
	if err := c.validateEstimator(); err != nil {
		return err
	}
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Retention.Days < 0 {
		return errors.New("retention.days must be zero (disabled) or positive")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path must be set")
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for the postgres driver. Set CONTENTPREP_DATABASE_DSN or edit the config file")
		}
	default:
		return fmt.Errorf("storage.driver: unsupported value %q (want sqlite or postgres)", c.Storage.Driver)
	}
	return nil
}

func (c *Config) validateDetection() error {
	switch c.Detection.Mode {
	case "auto", "pattern", "prefix":
	default:
		return fmt.Errorf("detection.mode: unsupported value %q (want auto, pattern, or prefix)", c.Detection.Mode)
	}
	return nil
}

func (c *Config) validateOrdering() error {
	if c.Ordering.UnrankedThreshold < 0 || c.Ordering.UnrankedThreshold > 1 {
		return errors.New("ordering.unranked_threshold must be between 0 and 1")
	}
	if c.Ordering.ConfidenceThreshold < 0 || c.Ordering.ConfidenceThreshold > 1 {
		return errors.New("ordering.confidence_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateEstimator() error {
	e := c.Estimator
	for name, value := range map[string]float64{
		"pdf_seconds":         e.PDFSeconds,
		"word_seconds":        e.WordSeconds,
		"slides_seconds":      e.SlidesSeconds,
		"spreadsheet_seconds": e.SpreadsheetSeconds,
		"text_seconds":        e.TextSeconds,
		"markdown_seconds":    e.MarkdownSeconds,
		"default_seconds":     e.DefaultSeconds,
		"low_multiplier":      e.LowMultiplier,
		"medium_multiplier":   e.MediumMultiplier,
		"high_multiplier":     e.HighMultiplier,
	} {
		if value < 0 {
			return fmt.Errorf("estimator.%s must not be negative", name)
		}
	}
	return nil
}

func (c *Config) validateClassifier() error {
	switch c.Classifier.Provider {
	case ProviderNone:
	case ProviderOpenRouter:
		if c.LLM.APIKey == "" {
			return errors.New("llm.api_key is required when classifier.provider is openrouter. Set OPENROUTER_API_KEY or edit the config file")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return errors.New("gemini.api_key is required when classifier.provider is gemini. Set GEMINI_API_KEY or edit the config file")
		}
	default:
		return fmt.Errorf("classifier.provider: unsupported value %q (want openrouter, gemini, or none)", c.Classifier.Provider)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

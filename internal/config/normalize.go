package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizeDetection()
	c.normalizeClassifier()
	c.normalizeWorkers()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.PendingDir, err = expandPath(c.Paths.PendingDir); err != nil {
		return fmt.Errorf("paths.pending_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case "", "sqlite3":
		c.Storage.Driver = DriverSQLite
	case "postgresql", "pg":
		c.Storage.Driver = DriverPostgres
	}
	if c.Storage.DSN == "" {
		if value, ok := os.LookupEnv("CONTENTPREP_DATABASE_DSN"); ok {
			c.Storage.DSN = value
		}
	}
	c.Storage.DSN = strings.TrimSpace(c.Storage.DSN)
	if strings.TrimSpace(c.Storage.SQLitePath) == "" {
		c.Storage.SQLitePath = filepath.Join(c.Paths.DataDir, defaultSQLiteName)
	}
	var err error
	if c.Storage.SQLitePath, err = expandPath(c.Storage.SQLitePath); err != nil {
		return fmt.Errorf("storage.sqlite_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeDetection() {
	c.Detection.Mode = strings.ToLower(strings.TrimSpace(c.Detection.Mode))
	if c.Detection.Mode == "" {
		c.Detection.Mode = defaultDetectionMode
	}
	if c.Detection.MinPrefixLength <= 0 {
		c.Detection.MinPrefixLength = defaultMinPrefixLength
	}
	indicators := make([]string, 0, len(c.Detection.Indicators))
	for _, word := range c.Detection.Indicators {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			indicators = append(indicators, word)
		}
	}
	c.Detection.Indicators = indicators
}

func (c *Config) normalizeClassifier() {
	c.Classifier.Provider = strings.ToLower(strings.TrimSpace(c.Classifier.Provider))
	if c.Classifier.Provider == "" {
		c.Classifier.Provider = ProviderNone
	}
	if c.LLM.APIKey == "" {
		for _, key := range []string{"CONTENTPREP_LLM_API_KEY", "OPENROUTER_API_KEY"} {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				c.LLM.APIKey = value
				break
			}
		}
	}
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.Gemini.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Gemini.APIKey = value
		}
	}
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	if strings.TrimSpace(c.Gemini.Model) == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	if c.Ordering.ClassifierTimeoutSeconds <= 0 {
		c.Ordering.ClassifierTimeoutSeconds = defaultClassifierTimeoutSeconds
	}
}

func (c *Config) normalizeWorkers() {
	if c.Workers.ManifestConcurrency <= 0 {
		c.Workers.ManifestConcurrency = defaultManifestConcurrency
	}
	if c.Workers.FolderConcurrency <= 0 {
		c.Workers.FolderConcurrency = defaultFolderConcurrency
	}
	if c.Retention.BatchSize <= 0 {
		c.Retention.BatchSize = defaultRetentionBatchSize
	}
	if c.Watch.DebounceMillis <= 0 {
		c.Watch.DebounceMillis = defaultWatchDebounceMillis
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	PendingDir string `toml:"pending_dir"`
}

// Storage selects the persistence backend.
type Storage struct {
	// Driver is "sqlite" or "postgres".
	Driver string `toml:"driver"`
	// DSN is the PostgreSQL connection string.
	DSN string `toml:"dsn"`
	// SQLitePath defaults to <data_dir>/contentprep.db.
	SQLitePath string `toml:"sqlite_path"`
}

// Detection tunes how files are grouped into sets.
type Detection struct {
	Mode            string   `toml:"mode"`
	MinPrefixLength int      `toml:"min_prefix_length"`
	Indicators      []string `toml:"indicators"`
	Recursive       bool     `toml:"recursive"`
}

// Ordering tunes escalation of ambiguous sets to the classifier.
type Ordering struct {
	UnrankedThreshold        float64 `toml:"unranked_threshold"`
	LexicalFallback          bool    `toml:"lexical_fallback"`
	ClassifierTimeoutSeconds int     `toml:"classifier_timeout_seconds"`
	// ConfidenceThreshold flags sets whose ordering confidence is lower
	// for manual review.
	ConfidenceThreshold      float64 `toml:"confidence_threshold"`
}

// Estimator holds per-kind base seconds and complexity multipliers.
type Estimator struct {
	PDFSeconds         float64 `toml:"pdf_seconds"`
	WordSeconds        float64 `toml:"word_seconds"`
	SlidesSeconds      float64 `toml:"slides_seconds"`
	SpreadsheetSeconds float64 `toml:"spreadsheet_seconds"`
	TextSeconds        float64 `toml:"text_seconds"`
	MarkdownSeconds    float64 `toml:"markdown_seconds"`
	DefaultSeconds     float64 `toml:"default_seconds"`
	LowMultiplier      float64 `toml:"low_multiplier"`
	MediumMultiplier   float64 `toml:"medium_multiplier"`
	HighMultiplier     float64 `toml:"high_multiplier"`
}

// Classifier selects the ordering classifier provider.
type Classifier struct {
	// Provider is "openrouter", "gemini", or "none".
	Provider string `toml:"provider"`
}

// LLM contains OpenRouter-compatible chat completion settings.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Gemini contains Google Gemini API settings.
type Gemini struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// Workers bounds parallel work.
type Workers struct {
	ManifestConcurrency int `toml:"manifest_concurrency"`
	FolderConcurrency   int `toml:"folder_concurrency"`
}

// Retention controls the sweep of completed sets.
type Retention struct {
	Days      int `toml:"days"`
	BatchSize int `toml:"batch_size"`
}

// Watch tunes the pending-folder watcher.
type Watch struct {
	DebounceMillis int `toml:"debounce_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for contentprep.
//
// Configuration sections by subsystem:
//   - Paths: data, log, and default pending directories
//   - Storage: sqlite or postgres persistence
//   - Detection: grouping mode, prefix threshold, indicator words
//   - Ordering: classifier escalation threshold, fallback, timeout
//   - Estimator: processing time estimate weights
//   - Classifier, LLM, Gemini: ambiguous-order classifier provider
//   - Workers: concurrency bounds for batch operations
//   - Retention: completed set sweep
//   - Watch: folder watcher debounce
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Storage    Storage    `toml:"storage"`
	Detection  Detection  `toml:"detection"`
	Ordering   Ordering   `toml:"ordering"`
	Estimator  Estimator  `toml:"estimator"`
	Classifier Classifier `toml:"classifier"`
	LLM        LLM        `toml:"llm"`
	Gemini     Gemini     `toml:"gemini"`
	Workers    Workers    `toml:"workers"`
	Retention  Retention  `toml:"retention"`
	Watch      Watch      `toml:"watch"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("contentprep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Storage.Driver == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(c.Storage.SQLitePath), 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}
	return nil
}

// LockPath returns the lock file used to serialize work on one folder.
func (c *Config) LockPath(name string) string {
	return filepath.Join(c.Paths.DataDir, "locks", name+".lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the OpenRouter connection settings.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// GetLLM returns the chat completion settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.LLM.Model),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
	}
}

package testsupport

import (
	"path/filepath"
	"testing"

	"contentprep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults to SQLite storage, no classifier and console logging.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.PendingDir = filepath.Join(base, "pending")
	cfgVal.Storage.Driver = config.DriverSQLite
	cfgVal.Storage.SQLitePath = filepath.Join(base, "data", "contentprep.db")
	cfgVal.Classifier.Provider = config.ProviderNone

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithPostgres points storage at a PostgreSQL DSN.
func WithPostgres(dsn string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Driver = config.DriverPostgres
		b.cfg.Storage.DSN = dsn
	}
}

// WithOpenRouter enables the OpenRouter classifier against baseURL.
func WithOpenRouter(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Classifier.Provider = config.ProviderOpenRouter
		b.cfg.LLM.APIKey = "test"
		b.cfg.LLM.BaseURL = baseURL
		b.cfg.LLM.Model = "test-model"
	}
}

// WithRecursiveListing makes folder analysis descend into subdirectories.
func WithRecursiveListing() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Detection.Recursive = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

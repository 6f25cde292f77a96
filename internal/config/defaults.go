package config

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderNone       = "none"
)

const (
	defaultConfigPath               = "~/.config/contentprep/config.toml"
	defaultDataDir                  = "~/.local/share/contentprep"
	defaultLogDir                   = "~/.local/share/contentprep/logs"
	defaultSQLiteName               = "contentprep.db"
	defaultDetectionMode            = "auto"
	defaultMinPrefixLength          = 4
	defaultUnrankedThreshold        = 0.5
	defaultConfidenceThreshold      = 0.8
	defaultClassifierTimeoutSeconds = 30
	defaultLLMBaseURL               = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel                 = "google/gemini-3-flash-preview"
	defaultLLMReferer               = "https://github.com/contentprep/contentprep"
	defaultLLMTitle                 = "Content Prep Resolver"
	defaultLLMTimeoutSeconds        = 60
	defaultGeminiModel              = "gemini-2.5-flash"
	defaultManifestConcurrency      = 4
	defaultFolderConcurrency        = 2
	defaultRetentionDays            = 90
	defaultRetentionBatchSize       = 50
	defaultWatchDebounceMillis      = 2000
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

var defaultIndicators = []string{
	"course", "tutorial", "training", "documentation", "manual",
	"series", "book", "guide", "curriculum",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Storage: Storage{
			Driver: DriverSQLite,
		},
		Detection: Detection{
			Mode:            defaultDetectionMode,
			MinPrefixLength: defaultMinPrefixLength,
			Indicators:      append([]string(nil), defaultIndicators...),
		},
		Ordering: Ordering{
			UnrankedThreshold:        defaultUnrankedThreshold,
			ConfidenceThreshold:      defaultConfidenceThreshold,
			LexicalFallback:          true,
			ClassifierTimeoutSeconds: defaultClassifierTimeoutSeconds,
		},
		Estimator: Estimator{
			PDFSeconds:         60,
			WordSeconds:        45,
			SlidesSeconds:      40,
			SpreadsheetSeconds: 35,
			TextSeconds:        10,
			MarkdownSeconds:    10,
			DefaultSeconds:     30,
			LowMultiplier:      0.8,
			MediumMultiplier:   1.0,
			HighMultiplier:     1.5,
		},
		Classifier: Classifier{
			Provider: ProviderNone,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Gemini: Gemini{
			Model: defaultGeminiModel,
		},
		Workers: Workers{
			ManifestConcurrency: defaultManifestConcurrency,
			FolderConcurrency:   defaultFolderConcurrency,
		},
		Retention: Retention{
			Days:      defaultRetentionDays,
			BatchSize: defaultRetentionBatchSize,
		},
		Watch: Watch{
			DebounceMillis: defaultWatchDebounceMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package prep

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"contentprep/internal/classifier"
	"contentprep/internal/config"
	"contentprep/internal/content"
	"contentprep/internal/detect"
	"contentprep/internal/listing"
	"contentprep/internal/logging"
	"contentprep/internal/manifest"
	"contentprep/internal/ordering"
	"contentprep/internal/store"
)

// Store is the persistence the service needs.
type Store interface {
	ordering.OrderCache
	CreateOrUpdateSet(ctx context.Context, set content.Set) (content.Set, error)
	GetSet(ctx context.Context, id string) (content.Set, error)
	ListSets(ctx context.Context, filter store.Filter) ([]content.Set, error)
	UpdateStatus(ctx context.Context, id string, to content.Status) (content.Set, error)
	SaveManifest(ctx context.Context, m content.Manifest) error
	LoadManifest(ctx context.Context, setID string) (content.Manifest, error)
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time, batchSize int) ([]string, error)
}

// Options configure a Service. Zero values select defaults.
type Options struct {
	Detection           detect.Options
	Ordering            ordering.Options
	Estimator           manifest.EstimatorConfig
	Classifier          ordering.Classifier
	Lister              listing.Lister
	ManifestConcurrency int
	FolderConcurrency   int
	RetentionBatchSize  int
	// ConfidenceThreshold flags orders below it for review; zero disables.
	ConfidenceThreshold float64
	// LockDir holds the sweep lock; empty disables locking.
	LockDir string
	Logger  *slog.Logger
	Now     func() time.Time
}

// Service implements the content preparation operations.
type Service struct {
	store               Store
	lister              listing.Lister
	detection           detect.Options
	resolver            *ordering.Resolver
	generator           *manifest.Generator
	folderConcurrency   int
	retentionBatch      int
	confidenceThreshold float64
	lockDir             string
	logger              *slog.Logger
	now                 func() time.Time
}

// New wires a service over st.
func New(st Store, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	lister := opts.Lister
	if lister == nil {
		lister = listing.DirLister{}
	}
	if opts.Ordering == (ordering.Options{}) {
		opts.Ordering = ordering.DefaultOptions()
	}
	if opts.Estimator.BaseSeconds == nil {
		opts.Estimator = manifest.DefaultEstimatorConfig()
	}

	resolverOpts := []ordering.Option{ordering.WithLogger(logger)}
	if opts.Classifier != nil {
		resolverOpts = append(resolverOpts, ordering.WithClassifier(opts.Classifier))
	}
	if st != nil {
		resolverOpts = append(resolverOpts, ordering.WithCache(st))
	}
	resolver := ordering.NewResolver(opts.Ordering, resolverOpts...)

	return &Service{
		store:     st,
		lister:    lister,
		detection: opts.Detection,
		resolver:  resolver,
		generator: manifest.NewGenerator(resolver, manifest.NewEstimator(opts.Estimator), manifest.Options{
			Concurrency: opts.ManifestConcurrency,
			Logger:      logger,
			Now:         now,
		}),
		folderConcurrency:   max(opts.FolderConcurrency, 1),
		retentionBatch:      opts.RetentionBatchSize,
		confidenceThreshold: opts.ConfidenceThreshold,
		lockDir:             opts.LockDir,
		logger:              logging.NewComponentLogger(logger, "prep"),
		now:                 now,
	}
}

// NewFromConfig builds a service from configuration, including the
// classifier selected by cfg.Classifier.Provider.
func NewFromConfig(ctx context.Context, cfg *config.Config, st Store, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("prep: config is nil")
	}
	mode, err := detect.ParseMode(cfg.Detection.Mode)
	if err != nil {
		return nil, err
	}
	cls, err := classifier.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}
	return New(st, Options{
		Detection: detect.Options{
			Mode:            mode,
			MinPrefixLength: cfg.Detection.MinPrefixLength,
			Indicators:      cfg.Detection.Indicators,
		},
		Ordering: ordering.Options{
			UnrankedThreshold: cfg.Ordering.UnrankedThreshold,
			LexicalFallback:   cfg.Ordering.LexicalFallback,
			ClassifierTimeout: time.Duration(cfg.Ordering.ClassifierTimeoutSeconds) * time.Second,
		},
		Estimator:           EstimatorConfig(cfg.Estimator),
		Classifier:          cls,
		Lister:              listing.DirLister{Recursive: cfg.Detection.Recursive},
		ManifestConcurrency: cfg.Workers.ManifestConcurrency,
		FolderConcurrency:   cfg.Workers.FolderConcurrency,
		RetentionBatchSize:  cfg.Retention.BatchSize,
		ConfidenceThreshold: cfg.Ordering.ConfidenceThreshold,
		LockDir:             filepath.Dir(cfg.LockPath("sweep")),
		Logger:              logger,
	}), nil
}

// EstimatorConfig maps the [estimator] config section onto manifest weights.
func EstimatorConfig(e config.Estimator) manifest.EstimatorConfig {
	return manifest.EstimatorConfig{
		BaseSeconds: map[content.Kind]float64{
			content.KindPDF:         e.PDFSeconds,
			content.KindWord:        e.WordSeconds,
			content.KindSlides:      e.SlidesSeconds,
			content.KindSpreadsheet: e.SpreadsheetSeconds,
			content.KindText:        e.TextSeconds,
			content.KindMarkdown:    e.MarkdownSeconds,
		},
		DefaultSeconds: e.DefaultSeconds,
		Multipliers: map[content.Complexity]float64{
			content.ComplexityLow:    e.LowMultiplier,
			content.ComplexityMedium: e.MediumMultiplier,
			content.ComplexityHigh:   e.HighMultiplier,
		},
		DefaultMultiple: e.MediumMultiplier,
	}
}

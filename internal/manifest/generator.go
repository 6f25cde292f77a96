package manifest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"contentprep/internal/completeness"
	"contentprep/internal/content"
	"contentprep/internal/logging"
	"contentprep/internal/ordering"
	"contentprep/internal/services"
)

// Orderer resolves the processing order of a set.
type Orderer interface {
	Resolve(ctx context.Context, set content.Set) (ordering.Result, error)
}

// Options tune the generator.
type Options struct {
	// Concurrency bounds GenerateAll; values below 1 mean 1.
	Concurrency int
	Logger      *slog.Logger
	Now         func() time.Time
	NewID       func() string
}

// Generator builds manifests.
type Generator struct {
	resolver    Orderer
	estimator   *Estimator
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// NewGenerator wires a generator. A nil estimator uses the default figures.
func NewGenerator(resolver Orderer, estimator *Estimator, opts Options) *Generator {
	if estimator == nil {
		estimator = NewEstimator(DefaultEstimatorConfig())
	}
	g := &Generator{
		resolver:    resolver,
		estimator:   estimator,
		concurrency: max(opts.Concurrency, 1),
		logger:      opts.Logger,
		now:         opts.Now,
		newID:       opts.NewID,
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}
	g.logger = logging.NewComponentLogger(g.logger, "manifest")
	if g.now == nil {
		g.now = time.Now
	}
	if g.newID == nil {
		g.newID = uuid.NewString
	}
	return g
}

// Generate validates set, resolves its order, links each file to its
// predecessor and estimates the total effort. Completeness is recomputed
// from the members rather than trusted from the stored flags.
func (g *Generator) Generate(ctx context.Context, set content.Set, proceedIncomplete bool) (content.Manifest, error) {
	checked, gaps := completeness.Apply(set)
	ctx = services.WithSetID(ctx, checked.ID)
	logger := logging.WithContext(ctx, g.logger)

	if !gaps.IsComplete {
		if !proceedIncomplete {
			return content.Manifest{}, &IncompleteSetError{
				SetID:   checked.ID,
				SetName: checked.Name,
				Missing: append([]int(nil), gaps.Missing...),
			}
		}
		logging.WarnWithContext(logger, "generating manifest for incomplete set",
			"manifest_incomplete_override",
			logging.Alert("incomplete_set"),
			logging.Any("missing_positions", gaps.Missing),
			logging.String(logging.FieldImpact, "downstream ingestion will have gaps"),
		)
	}

	resolved, err := g.resolver.Resolve(ctx, checked)
	if err != nil {
		return content.Manifest{}, err
	}

	files := make([]content.File, len(resolved.Files))
	for i, f := range resolved.Files {
		if i == 0 {
			files[i] = f.WithDependencies()
			continue
		}
		files[i] = f.WithDependencies(resolved.Files[i-1].Path)
	}

	warnings := append(completeness.Warnings(gaps), resolved.Warnings...)
	m := content.Manifest{
		ID:               g.newID(),
		SetID:            checked.ID,
		SetName:          checked.Name,
		Files:            files,
		TotalFiles:       len(files),
		EstimatedSeconds: g.estimator.Estimate(files),
		Warnings:         warnings,
		Context: map[string]any{
			"set_name":           checked.Name,
			"detection_method":   string(checked.Method),
			"is_complete":        gaps.IsComplete,
			"total_files":        len(files),
			"ranked_files":       gaps.Ranked,
			"unranked_files":     len(gaps.Unordered),
			"missing_positions":  append([]int{}, gaps.Missing...),
			"ordering_source":    string(resolved.Source),
			"proceed_incomplete": proceedIncomplete,
		},
		CreatedAt: g.now().UTC(),
	}
	logger.Info("manifest generated",
		logging.Int("total_files", m.TotalFiles),
		logging.Int("estimated_seconds", m.EstimatedSeconds),
		logging.Int("warnings", len(m.Warnings)),
	)
	return m, nil
}

// Outcome is one GenerateAll result.
type Outcome struct {
	SetID    string
	Manifest content.Manifest
	Err      error
}

// GenerateAll builds manifests for sets concurrently. Per-set failures are
// reported in the outcome; only context cancellation aborts the batch.
func (g *Generator) GenerateAll(ctx context.Context, sets []content.Set, proceedIncomplete bool) ([]Outcome, error) {
	outcomes := make([]Outcome, len(sets))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(g.concurrency)
	for i, set := range sets {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := g.Generate(gctx, set, proceedIncomplete)
			outcomes[i] = Outcome{SetID: set.ID, Manifest: m, Err: err}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

package prep

import (
	"context"
	"fmt"

	"contentprep/internal/content"
	"contentprep/internal/logging"
	"contentprep/internal/manifest"
	"contentprep/internal/services"
	"contentprep/internal/store"
)

// Order resolves the processing order of a stored set. The set itself is
// not modified; a classifier answer is written to the order cache.
func (s *Service) Order(ctx context.Context, setID string) (OrderReport, error) {
	set, err := s.store.GetSet(ctx, setID)
	if err != nil {
		return OrderReport{}, err
	}
	result, err := s.resolver.Resolve(services.WithSetID(ctx, set.ID), set)
	if err != nil {
		return OrderReport{}, err
	}
	return OrderReport{
		Result:      result,
		Confidence:  set.Confidence,
		Threshold:   s.confidenceThreshold,
		NeedsReview: s.needsReview(set.Confidence),
	}, nil
}

// Manifest generates, persists and returns a manifest for setID. A pending
// set moves to processing once its manifest is stored.
func (s *Service) Manifest(ctx context.Context, setID string, proceedIncomplete bool) (content.Manifest, error) {
	set, err := s.store.GetSet(ctx, setID)
	if err != nil {
		return content.Manifest{}, err
	}
	m, err := s.generator.Generate(ctx, set, proceedIncomplete)
	if err != nil {
		return content.Manifest{}, err
	}
	if err := s.commitManifest(ctx, set, m); err != nil {
		return content.Manifest{}, err
	}
	return m, nil
}

// ManifestAll generates manifests for every pending set. Sets that cannot
// be planned are reported in their outcome and left pending.
func (s *Service) ManifestAll(ctx context.Context, proceedIncomplete bool) ([]manifest.Outcome, error) {
	sets, err := s.store.ListSets(ctx, store.Filter{Statuses: []content.Status{content.StatusPending}})
	if err != nil {
		return nil, err
	}
	outcomes, err := s.generator.GenerateAll(ctx, sets, proceedIncomplete)
	if err != nil {
		return nil, err
	}
	for i := range outcomes {
		if outcomes[i].Err != nil {
			continue
		}
		if err := s.commitManifest(ctx, sets[i], outcomes[i].Manifest); err != nil {
			outcomes[i].Err = err
		}
	}
	return outcomes, nil
}

// LatestManifest returns the most recently stored manifest for setID.
func (s *Service) LatestManifest(ctx context.Context, setID string) (content.Manifest, error) {
	return s.store.LoadManifest(ctx, setID)
}

func (s *Service) commitManifest(ctx context.Context, set content.Set, m content.Manifest) error {
	if err := s.store.SaveManifest(ctx, m); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	if set.Status == content.StatusPending {
		if _, err := s.store.UpdateStatus(ctx, set.ID, content.StatusProcessing); err != nil {
			return fmt.Errorf("mark processing: %w", err)
		}
	}
	logger := logging.WithContext(services.WithSetID(ctx, set.ID), s.logger)
	logger.Info("manifest stored",
		logging.String("manifest_id", m.ID),
		logging.Int("total_files", m.TotalFiles),
	)
	return nil
}

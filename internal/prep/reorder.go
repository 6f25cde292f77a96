package prep

import (
	"context"
	"errors"
	"fmt"

	"contentprep/internal/completeness"
	"contentprep/internal/content"
	"contentprep/internal/logging"
	"contentprep/internal/ordering"
	"contentprep/internal/services"
	"contentprep/internal/store"
)

const (
	// metaOrderSource records who fixed a set's order.
	metaOrderSource   = "order_source"
	orderSourceManual = "manual"
)

// OrderReport is a resolved order plus the set's ordering confidence.
type OrderReport struct {
	ordering.Result `yaml:",inline"`
	Confidence      float64 `json:"confidence" yaml:"confidence"`
	Threshold       float64 `json:"confidence_threshold" yaml:"confidence_threshold"`
	// NeedsReview is set when confidence is below Threshold; the caller
	// should confirm the order with ReorderSet.
	NeedsReview bool `json:"needs_review" yaml:"needs_review"`
}

// ReorderSet replaces a set's order with names, an exact permutation of its
// member filenames. Members are re-ranked 1..N and the set's confidence and
// completeness are recomputed. Only pending or failed sets can be reordered
// since a processing set already has a manifest in use.
func (s *Service) ReorderSet(ctx context.Context, id string, names []string) (content.Set, error) {
	set, err := s.store.GetSet(ctx, id)
	if err != nil {
		return content.Set{}, err
	}
	if set.Status != content.StatusPending && set.Status != content.StatusFailed {
		return content.Set{}, services.Wrap(services.ErrValidation, "prep", "reorder set",
			fmt.Sprintf("content set is %s; only pending or failed sets can be reordered", set.Status), nil)
	}
	ordered, err := ordering.ApplyOrder(set.Files, names)
	if err != nil {
		return content.Set{}, fmt.Errorf("reorder %s: %w", set.Name, err)
	}

	files := make([]content.File, 0, len(ordered))
	for i, f := range ordered {
		files = append(files, f.WithRank(i+1, string(content.MethodManual)))
	}
	updated := set.WithFiles(files)
	updated.Confidence = content.Confidence(files)
	updated.Metadata[metaOrderSource] = orderSourceManual
	updated, _ = completeness.Apply(updated)

	saved, err := s.store.CreateOrUpdateSet(ctx, updated)
	if err != nil {
		return content.Set{}, err
	}
	logger := logging.WithContext(services.WithSetID(ctx, id), s.logger)
	logger.Info("content set reordered",
		logging.Float64("previous_confidence", set.Confidence),
		logging.Float64("confidence", saved.Confidence),
		logging.Int("files", len(files)),
	)
	return saved, nil
}

// keepManualOrder returns the stored set when a caller has fixed its order
// and detection found the same members, so re-analysis does not undo it.
func (s *Service) keepManualOrder(ctx context.Context, detected content.Set) (content.Set, bool, error) {
	existing, err := s.store.GetSet(ctx, detected.ID)
	if errors.Is(err, store.ErrNotFound) {
		return content.Set{}, false, nil
	}
	if err != nil {
		return content.Set{}, false, err
	}
	if existing.Metadata[metaOrderSource] != orderSourceManual || existing.Fingerprint() != detected.Fingerprint() {
		return content.Set{}, false, nil
	}
	return existing, true, nil
}

func (s *Service) needsReview(confidence float64) bool {
	return s.confidenceThreshold > 0 && confidence < s.confidenceThreshold
}

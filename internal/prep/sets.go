package prep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"contentprep/internal/completeness"
	"contentprep/internal/content"
	"contentprep/internal/detect"
	"contentprep/internal/logging"
	"contentprep/internal/services"
	"contentprep/internal/store"
	"contentprep/internal/textutil"
)

// ErrSweepBusy reports that another process holds the sweep lock.
var ErrSweepBusy = errors.New("retention sweep already running")

// SweepResult lists the sets removed by a retention sweep.
type SweepResult struct {
	Cutoff  time.Time `json:"cutoff" yaml:"cutoff"`
	Deleted []string  `json:"deleted_set_ids" yaml:"deleted_set_ids"`
}

// ListSets returns stored sets matching filter.
func (s *Service) ListSets(ctx context.Context, filter store.Filter) ([]content.Set, error) {
	return s.store.ListSets(ctx, filter)
}

// GetSet returns one stored set.
func (s *Service) GetSet(ctx context.Context, id string) (content.Set, error) {
	return s.store.GetSet(ctx, id)
}

// CreateManualSet groups paths into a set in the given order. Local files
// contribute their size; other paths are accepted as-is.
func (s *Service) CreateManualSet(ctx context.Context, name string, paths []string) (content.Set, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return content.Set{}, services.Wrap(services.ErrValidation, "prep", "create set", "name is required", nil)
	}
	if len(paths) == 0 {
		return content.Set{}, services.Wrap(services.ErrValidation, "prep", "create set", "at least one path is required", nil)
	}
	seen := make(map[string]struct{}, len(paths))
	files := make([]content.File, 0, len(paths))
	for i, raw := range paths {
		p := filepath.ToSlash(strings.TrimSpace(raw))
		if p == "" {
			return content.Set{}, services.Wrap(services.ErrValidation, "prep", "create set", "empty path", nil)
		}
		if _, dup := seen[p]; dup {
			return content.Set{}, services.Wrap(services.ErrValidation, "prep", "create set", "duplicate path "+p, nil)
		}
		seen[p] = struct{}{}
		var size int64
		if info, err := os.Stat(filepath.FromSlash(p)); err == nil && info.Mode().IsRegular() {
			size = info.Size()
		}
		files = append(files, content.NewFile(p, path.Base(p), size, "").WithRank(i+1, string(content.MethodManual)))
	}
	folder := detect.CommonFolder(files)
	key := "manual:" + textutil.NormalizeName(name)
	set := content.NewSet(name, key, folder, content.MethodManual, files)
	set.Confidence = 1
	set, _ = completeness.Apply(set)
	return s.store.CreateOrUpdateSet(ctx, set)
}

// MarkComplete records that downstream ingestion finished.
func (s *Service) MarkComplete(ctx context.Context, id string) (content.Set, error) {
	return s.transition(ctx, id, content.StatusComplete)
}

// MarkFailed records that downstream ingestion failed.
func (s *Service) MarkFailed(ctx context.Context, id string) (content.Set, error) {
	return s.transition(ctx, id, content.StatusFailed)
}

// Retry returns a failed set to pending.
func (s *Service) Retry(ctx context.Context, id string) (content.Set, error) {
	return s.transition(ctx, id, content.StatusPending)
}

func (s *Service) transition(ctx context.Context, id string, to content.Status) (content.Set, error) {
	set, err := s.store.UpdateStatus(ctx, id, to)
	if err != nil {
		return content.Set{}, err
	}
	logger := logging.WithContext(services.WithSetID(ctx, id), s.logger)
	logger.Info("content set status changed", logging.String("status", string(to)))
	return set, nil
}

// Sweep deletes complete sets older than retentionDays. Zero or negative
// retention disables the sweep.
func (s *Service) Sweep(ctx context.Context, retentionDays int) (SweepResult, error) {
	result := SweepResult{Deleted: []string{}}
	if retentionDays <= 0 {
		return result, nil
	}
	if s.lockDir != "" {
		if err := os.MkdirAll(s.lockDir, 0o755); err != nil {
			return result, fmt.Errorf("create lock dir: %w", err)
		}
		lock := flock.New(filepath.Join(s.lockDir, "sweep.lock"))
		locked, err := lock.TryLock()
		if err != nil {
			return result, fmt.Errorf("acquire sweep lock: %w", err)
		}
		if !locked {
			return result, ErrSweepBusy
		}
		defer func() { _ = lock.Unlock() }()
	}

	result.Cutoff = s.now().UTC().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	deleted, err := s.store.DeleteCompletedBefore(ctx, result.Cutoff, s.retentionBatch)
	result.Deleted = append(result.Deleted, deleted...)
	if err != nil {
		return result, fmt.Errorf("sweep completed sets: %w", err)
	}
	s.logger.Info("retention sweep finished",
		logging.Int("deleted", len(deleted)),
		logging.Int("retention_days", retentionDays),
	)
	return result, nil
}

package prep

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"contentprep/internal/completeness"
	"contentprep/internal/content"
	"contentprep/internal/detect"
	"contentprep/internal/listing"
	"contentprep/internal/logging"
	"contentprep/internal/services"
)

// Analysis is the outcome of analysing one folder.
type Analysis struct {
	Folder     string         `json:"folder" yaml:"folder"`
	Mode       detect.Mode    `json:"mode" yaml:"mode"`
	Sets       []content.Set  `json:"content_sets" yaml:"content_sets"`
	Standalone []content.File `json:"standalone_files" yaml:"standalone_files"`
}

// Validation reports a set's completeness.
type Validation struct {
	SetID       string   `json:"content_set_id" yaml:"content_set_id"`
	SetName     string   `json:"content_set_name" yaml:"content_set_name"`
	IsComplete  bool     `json:"is_complete" yaml:"is_complete"`
	Missing     []int    `json:"missing_positions" yaml:"missing_positions"`
	Descriptors []string `json:"missing_descriptors" yaml:"missing_descriptors"`
	Unordered   []string `json:"unordered_files" yaml:"unordered_files"`
	Warnings    []string `json:"warnings" yaml:"warnings"`
}

// Analyze lists folder, groups its files into sets and persists them. An
// empty mode uses the configured detection mode.
func (s *Service) Analyze(ctx context.Context, folder, mode string) (Analysis, error) {
	ctx = services.WithFolder(ctx, folder)
	logger := logging.WithContext(ctx, s.logger)

	opts := s.detection
	if strings.TrimSpace(mode) != "" {
		parsed, err := detect.ParseMode(mode)
		if err != nil {
			return Analysis{}, services.Wrap(services.ErrValidation, "prep", "analyze", "", err)
		}
		opts.Mode = parsed
	}

	entries, err := s.lister.ListPending(ctx, folder)
	if err != nil {
		return Analysis{}, err
	}
	result := detect.Detect(listing.ToFiles(entries), opts)

	saved := make([]content.Set, 0, len(result.Sets))
	for _, set := range result.Sets {
		kept, ok, err := s.keepManualOrder(ctx, set)
		if err != nil {
			return Analysis{}, fmt.Errorf("load set %s: %w", set.Name, err)
		}
		if ok {
			saved = append(saved, kept)
			continue
		}
		stored, err := s.store.CreateOrUpdateSet(ctx, set)
		if err != nil {
			return Analysis{}, fmt.Errorf("persist set %s: %w", set.Name, err)
		}
		saved = append(saved, stored)
	}
	logger.Info("folder analysed",
		logging.Int("files", len(entries)),
		logging.Int("content_sets", len(saved)),
		logging.Int("standalone_files", len(result.Standalone)),
		logging.String("mode", string(result.Mode)),
	)
	return Analysis{
		Folder:     folder,
		Mode:       result.Mode,
		Sets:       saved,
		Standalone: result.Standalone,
	}, nil
}

// AnalyzeFolders analyses several folders concurrently. Results follow the
// input order; the first failure cancels the rest.
func (s *Service) AnalyzeFolders(ctx context.Context, folders []string, mode string) ([]Analysis, error) {
	results := make([]Analysis, len(folders))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.folderConcurrency)
	for i, folder := range folders {
		group.Go(func() error {
			analysis, err := s.Analyze(gctx, folder, mode)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", folder, err)
			}
			results[i] = analysis
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Validate recomputes a stored set's completeness and refreshes the stored
// flags when they drifted.
func (s *Service) Validate(ctx context.Context, setID string) (Validation, error) {
	set, err := s.store.GetSet(ctx, setID)
	if err != nil {
		return Validation{}, err
	}
	refreshed, result := completeness.Apply(set)
	if refreshed.IsComplete != set.IsComplete || !equalInts(refreshed.MissingPositions, set.MissingPositions) {
		if _, err := s.store.CreateOrUpdateSet(ctx, refreshed); err != nil {
			return Validation{}, fmt.Errorf("refresh completeness: %w", err)
		}
	}
	return Validation{
		SetID:       set.ID,
		SetName:     set.Name,
		IsComplete:  result.IsComplete,
		Missing:     result.Missing,
		Descriptors: result.Descriptors(),
		Unordered:   result.Unordered,
		Warnings:    completeness.Warnings(result),
	}, nil
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

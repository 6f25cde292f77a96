package manifest

import (
	"math"

	"contentprep/internal/content"
)

const bytesPerMiB = 1 << 20

// EstimatorConfig holds base seconds per kind and complexity multipliers.
type EstimatorConfig struct {
	BaseSeconds     map[content.Kind]float64
	DefaultSeconds  float64
	Multipliers     map[content.Complexity]float64
	DefaultMultiple float64
}

// DefaultEstimatorConfig returns the stock per-kind figures.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		BaseSeconds: map[content.Kind]float64{
			content.KindPDF:         60,
			content.KindWord:        45,
			content.KindSlides:      40,
			content.KindSpreadsheet: 35,
			content.KindText:        10,
			content.KindMarkdown:    10,
		},
		DefaultSeconds: 30,
		Multipliers: map[content.Complexity]float64{
			content.ComplexityLow:    0.8,
			content.ComplexityMedium: 1.0,
			content.ComplexityHigh:   1.5,
		},
		DefaultMultiple: 1.0,
	}
}

// Estimator predicts processing time. Estimates are advisory.
type Estimator struct {
	cfg EstimatorConfig
}

// NewEstimator builds an estimator; missing entries fall back to defaults.
func NewEstimator(cfg EstimatorConfig) *Estimator {
	def := DefaultEstimatorConfig()
	if cfg.BaseSeconds == nil {
		cfg.BaseSeconds = def.BaseSeconds
	}
	if cfg.Multipliers == nil {
		cfg.Multipliers = def.Multipliers
	}
	if cfg.DefaultSeconds <= 0 {
		cfg.DefaultSeconds = def.DefaultSeconds
	}
	if cfg.DefaultMultiple <= 0 {
		cfg.DefaultMultiple = def.DefaultMultiple
	}
	return &Estimator{cfg: cfg}
}

// FileSeconds returns the unrounded estimate for one file.
func (e *Estimator) FileSeconds(f content.File) float64 {
	base, ok := e.cfg.BaseSeconds[f.Kind]
	if !ok {
		base = e.cfg.DefaultSeconds
	}
	multiple, ok := e.cfg.Multipliers[f.Complexity]
	if !ok {
		multiple = e.cfg.DefaultMultiple
	}
	sizeFactor := math.Max(1, float64(f.SizeBytes)/bytesPerMiB)
	return base * sizeFactor * multiple
}

// Estimate sums the per-file estimates and truncates to whole seconds.
func (e *Estimator) Estimate(files []content.File) int {
	total := 0.0
	for _, f := range files {
		total += e.FileSeconds(f)
	}
	return int(total)
}

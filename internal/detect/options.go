package detect

import (
	"fmt"
	"strings"

	"contentprep/internal/sequence"
)

// Mode selects the grouping strategy.
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModePattern Mode = "pattern"
	ModePrefix  Mode = "prefix"
)

// ParseMode validates a mode name. An empty name selects auto.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeAuto, "":
		return ModeAuto, nil
	case ModePattern:
		return ModePattern, nil
	case ModePrefix:
		return ModePrefix, nil
	default:
		return "", fmt.Errorf("unknown detection mode %q (want auto, pattern, or prefix)", value)
	}
}

// DefaultMinPrefixLength is the shortest shared prefix that links files.
const DefaultMinPrefixLength = 4

// DefaultIndicators are words that mark a lone file as the start of a set.
var DefaultIndicators = []string{
	"course", "tutorial", "training", "documentation", "manual",
	"series", "book", "guide", "curriculum",
}

// Options tune detection.
type Options struct {
	Mode            Mode
	MinPrefixLength int
	Indicators      []string
	Extractor       *sequence.Extractor
}

// DefaultOptions returns auto mode with the default prefix threshold and
// indicator list.
func DefaultOptions() Options {
	return Options{
		Mode:            ModeAuto,
		MinPrefixLength: DefaultMinPrefixLength,
		Indicators:      append([]string(nil), DefaultIndicators...),
	}
}

func (o Options) normalized() Options {
	if o.Mode == "" {
		o.Mode = ModeAuto
	}
	if o.MinPrefixLength <= 0 {
		o.MinPrefixLength = DefaultMinPrefixLength
	}
	if o.Indicators == nil {
		o.Indicators = DefaultIndicators
	}
	if o.Extractor == nil {
		o.Extractor = sequence.Default()
	}
	return o
}

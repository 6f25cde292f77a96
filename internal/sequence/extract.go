package sequence

import (
	"strings"

	"contentprep/internal/textutil"
)

// Extractor applies an ordered rule table to filenames.
type Extractor struct {
	rules []Rule
}

var defaultExtractor = NewExtractor()

// NewExtractor builds an extractor over the given rules in priority order.
// With no rules it uses DefaultRules.
func NewExtractor(rules ...Rule) *Extractor {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Extractor{rules: append([]Rule(nil), rules...)}
}

// Default returns the shared extractor over the default rules.
func Default() *Extractor {
	return defaultExtractor
}

// Extract finds the highest-priority sequence signal in filename.
func (e *Extractor) Extract(filename string) (Match, bool) {
	base := strings.ToLower(textutil.StripExtension(filename))
	if base == "" {
		return Match{}, false
	}
	for priority, rule := range e.rules {
		if rule.Match == nil {
			continue
		}
		m, ok := rule.Match(base)
		if !ok {
			continue
		}
		m.Priority = priority
		if m.Kind == "" {
			m.Kind = rule.Kind
		}
		m.Base = base
		return m, true
	}
	return Match{}, false
}

// Extract runs the default extractor.
func Extract(filename string) (Match, bool) {
	return defaultExtractor.Extract(filename)
}

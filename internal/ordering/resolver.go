package ordering

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"contentprep/internal/content"
	"contentprep/internal/logging"
	"contentprep/internal/services"
)

// Source reports where the order of unranked files came from.
type Source string

const (
	SourceNone       Source = ""
	SourceLexical    Source = "lexical"
	SourceClassifier Source = "classifier"
	SourceCache      Source = "classifier_cache"
)

// Options tune escalation to the classifier.
type Options struct {
	// UnrankedThreshold is the unranked fraction above which the classifier
	// is consulted.
	UnrankedThreshold float64
	// LexicalFallback allows filename order when the classifier cannot help.
	LexicalFallback   bool
	ClassifierTimeout time.Duration
}

// DefaultOptions escalates above 50% unranked with a 30 second budget and
// lexical fallback enabled.
func DefaultOptions() Options {
	return Options{
		UnrankedThreshold: 0.5,
		LexicalFallback:   true,
		ClassifierTimeout: 30 * time.Second,
	}
}

// Result is a resolved order.
type Result struct {
	Files     []content.File `json:"files"`
	Warnings  []string       `json:"warnings"`
	Escalated bool           `json:"escalated"`
	Source    Source         `json:"unranked_source,omitempty"`
}

// Resolver orders content set members.
type Resolver struct {
	opts       Options
	classifier Classifier
	cache      OrderCache
	logger     *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClassifier sets the classifier consulted for ambiguous sets.
func WithClassifier(c Classifier) Option {
	return func(r *Resolver) { r.classifier = c }
}

// WithCache sets the memo for classifier answers.
func WithCache(c OrderCache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a resolver.
func NewResolver(opts Options, options ...Option) *Resolver {
	if opts.UnrankedThreshold < 0 {
		opts.UnrankedThreshold = 0
	}
	r := &Resolver{opts: opts, logger: logging.NewNop()}
	for _, opt := range options {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "ordering")
	return r
}

// Resolve computes the processing order for set. The returned files carry
// no dependency edges; the manifest generator adds them.
func (r *Resolver) Resolve(ctx context.Context, set content.Set) (Result, error) {
	ranked := make([]content.File, 0, len(set.Files))
	unranked := make([]content.File, 0)
	for _, f := range set.Files {
		if f.HasRank() {
			ranked = append(ranked, f.Clone())
		} else {
			unranked = append(unranked, f.Clone())
		}
	}
	sortRanked(ranked)
	sortLexical(unranked)

	result := Result{Warnings: duplicateWarnings(ranked)}
	if len(unranked) > 0 {
		result.Source = SourceLexical
		fraction := float64(len(unranked)) / float64(len(set.Files))
		if fraction > r.opts.UnrankedThreshold {
			result.Escalated = true
			ordered, source, warning, err := r.escalate(ctx, set, unranked)
			reason := fmt.Sprintf("%.0f%% of files unranked", fraction*100)
			attrs := append(logging.DecisionAttrs("ordering_escalation", string(source), reason),
				logging.Bool("classifier_failed", err != nil),
				logging.Bool("lexical_fallback", r.opts.LexicalFallback),
			)
			logging.WithContext(services.WithSetID(ctx, set.ID), r.logger).Debug("unranked files escalated", logging.Args(attrs...)...)
			switch {
			case err == nil:
				unranked, result.Source = ordered, source
			case !r.opts.LexicalFallback:
				return Result{}, &AmbiguousOrderError{
					SetID:    set.ID,
					Unranked: content.Names(unranked),
					Fraction: fraction,
					Err:      err,
				}
			}
			if warning != "" {
				result.Warnings = append(result.Warnings, warning)
			}
		}
		for _, f := range unranked {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("unordered file %s has no sequence position; completeness cannot be validated for it", f.Name))
		}
	}

	result.Files = append(ranked, unranked...)
	return result, nil
}

// escalate asks the classifier to order unranked files. A non-nil error
// means the classifier was unavailable or failed; an invalid answer is
// reported only as a warning with a lexical result.
func (r *Resolver) escalate(ctx context.Context, set content.Set, unranked []content.File) ([]content.File, Source, string, error) {
	names := content.Names(unranked)
	key := set.ID + ":" + content.Fingerprint(content.Paths(unranked))
	logger := logging.WithContext(services.WithSetID(ctx, set.ID), r.logger)

	if r.cache != nil {
		cached, ok, err := r.cache.GetOrder(ctx, key)
		if err != nil {
			logger.Warn("classifier cache lookup failed", logging.Error(err))
		} else if ok {
			if ordered, verr := ApplyOrder(unranked, cached); verr == nil {
				return ordered, SourceCache, "", nil
			}
		}
	}

	if r.classifier == nil {
		return unranked, SourceLexical, fallbackWarning(len(unranked), ErrClassifierUnavailable), ErrClassifierUnavailable
	}

	callCtx := ctx
	if r.opts.ClassifierTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.opts.ClassifierTimeout)
		defer cancel()
	}
	hints := map[string]string{
		"set_name": set.Name,
		"folder":   set.Folder,
		"method":   string(set.Method),
	}
	suggested, err := r.classifier.SuggestOrder(callCtx, names, hints)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = services.Wrap(services.ErrTimeout, "ordering", "suggest order", "classifier timed out", err)
		}
		logging.WarnWithContext(logger, "classifier failed; using filename order",
			"ordering_classifier_failed",
			logging.Int("unordered_files", len(unranked)),
			logging.String(logging.FieldImpact, "unranked files ordered by filename"),
			logging.Error(err),
		)
		return unranked, SourceLexical, fallbackWarning(len(unranked), err), err
	}

	ordered, err := ApplyOrder(unranked, suggested)
	var perr *PermutationError
	if errors.As(err, &perr) {
		err = &InvalidClassifierResponseError{Missing: perr.Missing, Unexpected: perr.Unexpected}
	}
	if err != nil {
		logging.WarnWithContext(logger, "classifier returned invalid order; using filename order",
			"ordering_classifier_invalid",
			logging.Error(err),
		)
		return unranked, SourceLexical, "classifier order rejected: " + err.Error() + "; using filename order", nil
	}
	if r.cache != nil {
		if err := r.cache.PutOrder(ctx, key, content.Names(ordered)); err != nil {
			logger.Warn("classifier cache store failed", logging.Error(err))
		}
	}
	logger.Debug("classifier ordered unranked files", logging.Int("unordered_files", len(ordered)))
	return ordered, SourceClassifier, "", nil
}

func fallbackWarning(count int, err error) string {
	return fmt.Sprintf("classifier could not order %d unordered files (%v); using filename order", count, err)
}

// ApplyOrder validates that order is an exact permutation of the files'
// names and returns the files in that order. Repeated names are assigned
// in their existing relative order. A mismatch yields *PermutationError.
func ApplyOrder(files []content.File, order []string) ([]content.File, error) {
	queues := make(map[string][]content.File, len(files))
	for _, f := range files {
		queues[f.Name] = append(queues[f.Name], f)
	}
	out := make([]content.File, 0, len(files))
	var unexpected []string
	for _, raw := range order {
		name := strings.TrimSpace(raw)
		q := queues[name]
		if len(q) == 0 {
			unexpected = append(unexpected, raw)
			continue
		}
		out = append(out, q[0])
		queues[name] = q[1:]
	}
	var missing []string
	for _, f := range files {
		if q := queues[f.Name]; len(q) > 0 {
			missing = append(missing, f.Name)
			queues[f.Name] = q[1:]
		}
	}
	if len(unexpected) > 0 || len(missing) > 0 {
		sort.Strings(missing)
		sort.Strings(unexpected)
		return nil, &PermutationError{Missing: missing, Unexpected: unexpected}
	}
	return out, nil
}

func sortRanked(files []content.File) {
	sort.SliceStable(files, func(i, j int) bool {
		ri, rj := files[i].RankValue(), files[j].RankValue()
		if ri != rj {
			return ri < rj
		}
		return lexicalLess(files[i], files[j])
	})
}

func sortLexical(files []content.File) {
	sort.SliceStable(files, func(i, j int) bool {
		return lexicalLess(files[i], files[j])
	})
}

func lexicalLess(a, b content.File) bool {
	la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if la != lb {
		return la < lb
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Path < b.Path
}

func duplicateWarnings(ranked []content.File) []string {
	warnings := []string{}
	for i := 0; i < len(ranked); {
		j := i + 1
		for j < len(ranked) && ranked[j].RankValue() == ranked[i].RankValue() {
			j++
		}
		if j-i > 1 {
			warnings = append(warnings, fmt.Sprintf("duplicate sequence position %d: %s (ordered by filename)",
				ranked[i].RankValue(), strings.Join(content.Names(ranked[i:j]), ", ")))
		}
		i = j
	}
	return warnings
}

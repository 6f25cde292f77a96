package ordering

import (
	"errors"
	"fmt"
	"strings"

	"contentprep/internal/services"
)

// ErrClassifierUnavailable reports that no classifier is configured.
var ErrClassifierUnavailable = errors.New("ordering classifier unavailable")

// AmbiguousOrderError is returned when most files lack a sequence position,
// the classifier could not order them, and lexical fallback is disabled.
type AmbiguousOrderError struct {
	SetID    string
	Unranked []string
	Fraction float64
	Err      error
}

func (e *AmbiguousOrderError) Error() string {
	msg := fmt.Sprintf("cannot order content set %s: %d unordered files (%.0f%%) and no usable classifier",
		e.SetID, len(e.Unranked), e.Fraction*100)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AmbiguousOrderError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrValidation}
	}
	return []error{services.ErrValidation, e.Err}
}

// InvalidClassifierResponseError reports a classifier answer that is not an
// exact permutation of the requested filenames. The resolver never returns
// it; it is recorded as a warning.
type InvalidClassifierResponseError struct {
	Missing    []string
	Unexpected []string
}

func (e *InvalidClassifierResponseError) Error() string {
	return "classifier response is not a permutation" + describeMismatch(e.Missing, e.Unexpected)
}

func (e *InvalidClassifierResponseError) Unwrap() error {
	return services.ErrExternal
}

// PermutationError reports an order that does not name every file of a set
// exactly once.
type PermutationError struct {
	Missing    []string
	Unexpected []string
}

func (e *PermutationError) Error() string {
	return "order is not a permutation of the set" + describeMismatch(e.Missing, e.Unexpected)
}

func (e *PermutationError) Unwrap() error {
	return services.ErrValidation
}

func describeMismatch(missing, unexpected []string) string {
	parts := make([]string, 0, 2)
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(unexpected) > 0 {
		parts = append(parts, "unexpected "+strings.Join(unexpected, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return ": " + strings.Join(parts, "; ")
}

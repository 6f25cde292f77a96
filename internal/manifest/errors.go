package manifest

import (
	"fmt"
	"strings"

	"contentprep/internal/content"
	"contentprep/internal/services"
)

// IncompleteSetError refuses a manifest for a set with missing positions.
type IncompleteSetError struct {
	SetID   string
	SetName string
	Missing []int
}

func (e *IncompleteSetError) Error() string {
	return fmt.Sprintf("content set %q is incomplete: missing %s", e.SetName,
		strings.Join(content.MissingDescriptors(e.Missing), ", "))
}

// Remedy tells the caller how to override the refusal.
func (e *IncompleteSetError) Remedy() string {
	return "re-request with proceed_incomplete=true to generate a manifest anyway"
}

func (e *IncompleteSetError) Unwrap() error {
	return services.ErrValidation
}

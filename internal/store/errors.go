package store

import (
	"errors"
	"fmt"

	"contentprep/internal/services"
)

var (
	// ErrNotFound reports a missing content set or manifest.
	ErrNotFound = fmt.Errorf("content set %w", services.ErrNotFound)
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)

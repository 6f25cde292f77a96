// Package manifest turns a validated content set into an ordered processing
// plan with dependency edges and an effort estimate.
//
// Generator composes the completeness validator and the ordering resolver.
// Incomplete sets are refused with IncompleteSetError unless the caller
// explicitly proceeds, in which case every gap is carried as a warning.
// GenerateAll fans out over a bounded errgroup and reports per-set outcomes
// in input order.
package manifest

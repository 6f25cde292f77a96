// Package services defines shared utilities consumed by the resolver
// components and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp set IDs, folders, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (validation vs transient) with errors.Is.
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform across the module.
package services

// Package config loads, normalizes, and validates contentprep configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as OPENROUTER_API_KEY,
// GEMINI_API_KEY, and CONTENTPREP_DATABASE_DSN. The Config type centralizes
// every knob the resolver and CLI need so storage, detection, ordering, and
// classifier settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config

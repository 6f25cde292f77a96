// Package textutil provides filename text helpers shared by the sequence
// extractor and the set detector.
//
// The primary use cases are:
//   - Normalizing filenames into comparable lower-case, space-separated stems
//   - Finding shared prefixes between normalized names
//   - Title-casing stems into display names
//   - Sanitizing arbitrary strings into filesystem-safe tokens
package textutil

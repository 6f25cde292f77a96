package content

import "time"

// Manifest is the ordered processing plan handed to downstream ingestion.
// Files is a permutation of exactly the set's members.
type Manifest struct {
	ID               string         `json:"id" yaml:"id"`
	SetID            string         `json:"content_set_id" yaml:"content_set_id"`
	SetName          string         `json:"content_set_name" yaml:"content_set_name"`
	Files            []File         `json:"ordered_files" yaml:"ordered_files"`
	TotalFiles       int            `json:"total_files" yaml:"total_files"`
	EstimatedSeconds int            `json:"estimated_time_seconds" yaml:"estimated_time_seconds"`
	Warnings         []string       `json:"warnings" yaml:"warnings"`
	Context          map[string]any `json:"context" yaml:"context"`
	CreatedAt        time.Time      `json:"created_at" yaml:"created_at"`
}

// Paths returns the storage paths in processing order.
func (m Manifest) Paths() []string {
	return Paths(m.Files)
}

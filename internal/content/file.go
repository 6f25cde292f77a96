package content

import (
	"maps"
	"path"
	"slices"
)

// File is one document awaiting ingestion. Path is the unique storage key.
type File struct {
	Path         string            `json:"path" yaml:"path"`
	Name         string            `json:"filename" yaml:"filename"`
	Rank         *int              `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Pattern      string            `json:"detection_pattern,omitempty" yaml:"detection_pattern,omitempty"`
	Dependencies []string          `json:"dependencies" yaml:"dependencies"`
	Complexity   Complexity        `json:"complexity" yaml:"complexity"`
	Kind         Kind              `json:"kind" yaml:"kind"`
	SizeBytes    int64             `json:"size_bytes" yaml:"size_bytes"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewFile builds an unranked file with medium complexity. The display name
// defaults to the last path element and the kind to the extension's kind.
func NewFile(filePath, name string, sizeBytes int64, kind Kind) File {
	if name == "" {
		name = path.Base(filePath)
	}
	if kind == "" {
		kind = KindFromFilename(name)
	}
	return File{
		Path:         filePath,
		Name:         name,
		Dependencies: []string{},
		Complexity:   ComplexityMedium,
		Kind:         kind,
		SizeBytes:    sizeBytes,
		Metadata:     map[string]string{},
	}
}

// HasRank reports whether a sequence position was resolved for the file.
func (f File) HasRank() bool {
	return f.Rank != nil
}

// RankValue returns the sequence position, or 0 when unranked.
func (f File) RankValue() int {
	if f.Rank == nil {
		return 0
	}
	return *f.Rank
}

// Clone returns a deep copy.
func (f File) Clone() File {
	out := f
	if f.Rank != nil {
		rank := *f.Rank
		out.Rank = &rank
	}
	out.Dependencies = append([]string{}, f.Dependencies...)
	out.Metadata = maps.Clone(f.Metadata)
	if out.Metadata == nil {
		out.Metadata = map[string]string{}
	}
	return out
}

// WithRank returns a copy carrying the given position and matching rule.
func (f File) WithRank(rank int, pattern string) File {
	out := f.Clone()
	out.Rank = &rank
	out.Pattern = pattern
	return out
}

// WithoutRank returns a copy with the position and rule cleared.
func (f File) WithoutRank() File {
	out := f.Clone()
	out.Rank = nil
	out.Pattern = ""
	return out
}

// WithDependencies returns a copy depending on the given paths. The file's
// own path and duplicates are dropped.
func (f File) WithDependencies(paths ...string) File {
	out := f.Clone()
	deps := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" || p == f.Path || slices.Contains(deps, p) {
			continue
		}
		deps = append(deps, p)
	}
	out.Dependencies = deps
	return out
}

// WithComplexity returns a copy with the given complexity.
func (f File) WithComplexity(c Complexity) File {
	out := f.Clone()
	out.Complexity = c
	return out
}

// CloneFiles deep-copies a file slice, never returning nil.
func CloneFiles(files []File) []File {
	out := make([]File, 0, len(files))
	for _, f := range files {
		out = append(out, f.Clone())
	}
	return out
}

// Paths returns the storage paths of files in order.
func Paths(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

// Names returns the display filenames of files in order.
func Names(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

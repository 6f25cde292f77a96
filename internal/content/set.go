package content

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// Set is a group of files judged to form one ordered unit.
type Set struct {
	ID               string            `json:"id" yaml:"id"`
	Name             string            `json:"name" yaml:"name"`
	Key              string            `json:"key" yaml:"key"`
	Folder           string            `json:"folder" yaml:"folder"`
	Method           Method            `json:"detection_method" yaml:"detection_method"`
	Files            []File            `json:"files" yaml:"files"`
	IsComplete       bool              `json:"is_complete" yaml:"is_complete"`
	MissingPositions []int             `json:"missing_positions" yaml:"missing_positions"`
	Status           Status            `json:"processing_status" yaml:"processing_status"`
	Confidence       float64           `json:"confidence" yaml:"confidence"`
	CreatedAt        time.Time         `json:"created_at" yaml:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" yaml:"updated_at"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewSet builds a pending set whose ID is derived from folder and key. The
// set starts complete with no missing positions; run the completeness
// validator before persisting it.
func NewSet(name, key, folder string, method Method, files []File) Set {
	return Set{
		ID:               SetID(folder, key),
		Name:             name,
		Key:              key,
		Folder:           folder,
		Method:           method,
		Files:            CloneFiles(files),
		IsComplete:       true,
		MissingPositions: []int{},
		Status:           StatusPending,
		Metadata:         map[string]string{},
	}
}

// Clone returns a deep copy.
func (s Set) Clone() Set {
	out := s
	out.Files = CloneFiles(s.Files)
	out.MissingPositions = append([]int{}, s.MissingPositions...)
	out.Metadata = maps.Clone(s.Metadata)
	if out.Metadata == nil {
		out.Metadata = map[string]string{}
	}
	if s.CompletedAt != nil {
		completed := *s.CompletedAt
		out.CompletedAt = &completed
	}
	return out
}

// WithFiles returns a copy holding the given members.
func (s Set) WithFiles(files []File) Set {
	out := s.Clone()
	out.Files = CloneFiles(files)
	return out
}

// WithMissing returns a copy whose completeness reflects the given gaps.
func (s Set) WithMissing(missing []int) Set {
	out := s.Clone()
	out.MissingPositions = append([]int{}, missing...)
	slices.Sort(out.MissingPositions)
	out.IsComplete = len(out.MissingPositions) == 0
	return out
}

// RankedCount returns how many members carry a sequence position.
func (s Set) RankedCount() int {
	n := 0
	for _, f := range s.Files {
		if f.HasRank() {
			n++
		}
	}
	return n
}

// UnrankedCount returns how many members have no sequence position.
func (s Set) UnrankedCount() int {
	return len(s.Files) - s.RankedCount()
}

// Fingerprint identifies the set's current membership.
func (s Set) Fingerprint() string {
	return Fingerprint(Paths(s.Files))
}

// MissingDescriptors renders each missing position for display.
func (s Set) MissingDescriptors() []string {
	return MissingDescriptors(s.MissingPositions)
}

// MissingDescriptors renders positions as "#N (between N-1 and N+1)".
func MissingDescriptors(positions []int) []string {
	out := make([]string, 0, len(positions))
	for _, pos := range positions {
		out = append(out, fmt.Sprintf("#%d (between %d and %d)", pos, pos-1, pos+1))
	}
	return out
}

// Extensions returns the distinct upper-cased member extensions, sorted.
func (s Set) Extensions() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 2)
	for _, f := range s.Files {
		ext := Extension(f.Name)
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

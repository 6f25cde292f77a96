// Package completeness checks a content set's ranked members for gaps.
package completeness

import (
	"fmt"
	"slices"

	"contentprep/internal/content"
)

// Result describes the gaps found in a set.
type Result struct {
	IsComplete bool     `json:"is_complete"`
	Missing    []int    `json:"missing_positions"`
	Unordered  []string `json:"unordered_files"`
	Ranked     int      `json:"ranked_files"`
	Min        int      `json:"min_position"`
	Max        int      `json:"max_position"`
}

// Descriptors renders the missing positions for display.
func (r Result) Descriptors() []string {
	return content.MissingDescriptors(r.Missing)
}

// Validate reports every integer between the lowest and highest ranked
// position that no member occupies. Unranked members are listed separately
// and never count as gaps. Sets with fewer than two ranked members are
// complete.
func Validate(set content.Set) Result {
	result := Result{IsComplete: true, Missing: []int{}, Unordered: []string{}}
	ranks := make([]int, 0, len(set.Files))
	for _, f := range set.Files {
		if !f.HasRank() {
			result.Unordered = append(result.Unordered, f.Name)
			continue
		}
		ranks = append(ranks, *f.Rank)
	}
	slices.Sort(result.Unordered)
	result.Ranked = len(ranks)
	if len(ranks) == 0 {
		return result
	}
	slices.Sort(ranks)
	ranks = slices.Compact(ranks)
	result.Min = ranks[0]
	result.Max = ranks[len(ranks)-1]
	if result.Ranked < 2 {
		return result
	}
	next := 0
	for pos := result.Min; pos <= result.Max; pos++ {
		if ranks[next] == pos {
			next++
			continue
		}
		result.Missing = append(result.Missing, pos)
	}
	result.IsComplete = len(result.Missing) == 0
	return result
}

// Apply returns a copy of set with its completeness fields refreshed.
func Apply(set content.Set) (content.Set, Result) {
	result := Validate(set)
	return set.WithMissing(result.Missing), result
}

// MissingWarning formats the warning for one missing position.
func MissingWarning(pos int) string {
	return fmt.Sprintf("missing sequence position %d (expected between %d and %d)", pos, pos-1, pos+1)
}

// Warnings returns one warning per missing position, ascending.
func Warnings(result Result) []string {
	out := make([]string, 0, len(result.Missing))
	for _, pos := range result.Missing {
		out = append(out, MissingWarning(pos))
	}
	return out
}

package content

import (
	"math"
	"slices"
)

// Confidence scores how trustworthy a set's ordering is on a 0..1 scale:
// 40% share of ranked members, 30% contiguity of ranks, 30% agreement on a
// single matching rule.
func Confidence(files []File) float64 {
	if len(files) == 0 {
		return 0
	}
	ranks := make([]int, 0, len(files))
	patterns := make(map[string]int)
	for _, f := range files {
		if !f.HasRank() {
			continue
		}
		ranks = append(ranks, *f.Rank)
		patterns[f.Pattern]++
	}
	rankedRatio := float64(len(ranks)) / float64(len(files))

	contiguity := 0.0
	if len(ranks) > 0 {
		slices.Sort(ranks)
		ranks = slices.Compact(ranks)
		span := ranks[len(ranks)-1] - ranks[0] + 1
		contiguity = float64(len(ranks)) / float64(span)
	}

	consistency := 0.0
	if len(ranks) > 0 {
		dominant := 0
		total := 0
		for _, n := range patterns {
			total += n
			dominant = max(dominant, n)
		}
		consistency = float64(dominant) / float64(total)
	}

	score := 0.4*rankedRatio + 0.3*contiguity + 0.3*consistency
	return math.Round(score*100) / 100
}

package completeness_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"contentprep/internal/completeness"
	"contentprep/internal/content"
)

func rankedFile(name string, rank int) content.File {
	return content.NewFile("pending/"+name, name, 0, "").WithRank(rank, "numeric_prefix")
}

func unrankedFile(name string) content.File {
	return content.NewFile("pending/"+name, name, 0, "")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		files     []content.File
		missing   []int
		unordered []string
	}{
		{
			name:    "gap at three",
			files:   []content.File{rankedFile("01-intro.pdf", 1), rankedFile("02-basics.pdf", 2), rankedFile("04-advanced.pdf", 4)},
			missing: []int{3},
		},
		{
			name:  "contiguous",
			files: []content.File{rankedFile("module01.pdf", 1), rankedFile("module02.pdf", 2), rankedFile("module03.pdf", 3)},
		},
		{
			name:      "single ranked",
			files:     []content.File{rankedFile("05-end.pdf", 5), unrankedFile("notes.pdf")},
			unordered: []string{"notes.pdf"},
		},
		{
			name:    "several gaps",
			files:   []content.File{rankedFile("02.pdf", 2), rankedFile("06.pdf", 6)},
			missing: []int{3, 4, 5},
		},
		{
			name:  "duplicate ranks are not gaps",
			files: []content.File{rankedFile("01-a.pdf", 1), rankedFile("01-b.pdf", 1), rankedFile("02.pdf", 2)},
		},
		{
			name:      "unranked only",
			files:     []content.File{unrankedFile("b.pdf"), unrankedFile("a.pdf")},
			unordered: []string{"a.pdf", "b.pdf"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := content.NewSet("Test", "numeric:", "pending", content.MethodPattern, tt.files)
			got := completeness.Validate(set)
			want := tt.missing
			if want == nil {
				want = []int{}
			}
			if diff := cmp.Diff(want, got.Missing); diff != "" {
				t.Fatalf("missing mismatch (-want +got):\n%s", diff)
			}
			unordered := tt.unordered
			if unordered == nil {
				unordered = []string{}
			}
			if diff := cmp.Diff(unordered, got.Unordered); diff != "" {
				t.Fatalf("unordered mismatch (-want +got):\n%s", diff)
			}
			if got.IsComplete != (len(want) == 0) {
				t.Fatalf("IsComplete = %v with missing %v", got.IsComplete, got.Missing)
			}
		})
	}
}

func TestApplyKeepsInvariant(t *testing.T) {
	set := content.NewSet("Test", "numeric:", "pending", content.MethodPattern, []content.File{
		rankedFile("01-intro.pdf", 1), rankedFile("04-advanced.pdf", 4),
	})
	updated, result := completeness.Apply(set)
	if updated.IsComplete || len(updated.MissingPositions) != 2 {
		t.Fatalf("unexpected completeness %v %v", updated.IsComplete, updated.MissingPositions)
	}
	if diff := cmp.Diff([]string{"#2 (between 1 and 3)", "#3 (between 2 and 4)"}, result.Descriptors()); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}
	if !set.IsComplete {
		t.Fatal("expected input set untouched")
	}
}

// Every reported gap lies strictly inside the ranked range and is absent
// from the ranks, and every absent interior value is reported.
func TestValidateProperty(t *testing.T) {
	rankSets := [][]int{
		{1, 2, 3},
		{1, 3, 5, 9},
		{10, 12},
		{0, 7},
		{3, 3, 4, 8},
	}
	for _, ranks := range rankSets {
		files := make([]content.File, 0, len(ranks))
		present := map[int]bool{}
		for i, r := range ranks {
			files = append(files, rankedFile(strings.Repeat("x", i+1)+".pdf", r))
			present[r] = true
		}
		set := content.NewSet("Test", "k", "pending", content.MethodPattern, files)
		got := completeness.Validate(set)
		reported := map[int]bool{}
		for _, m := range got.Missing {
			if present[m] {
				t.Fatalf("ranks %v: reported present position %d", ranks, m)
			}
			if m <= got.Min || m >= got.Max {
				t.Fatalf("ranks %v: gap %d outside (%d, %d)", ranks, m, got.Min, got.Max)
			}
			reported[m] = true
		}
		for pos := got.Min; pos <= got.Max; pos++ {
			if !present[pos] && !reported[pos] {
				t.Fatalf("ranks %v: gap %d not reported", ranks, pos)
			}
		}
	}
}

func TestWarnings(t *testing.T) {
	got := completeness.Warnings(completeness.Result{Missing: []int{3}})
	if len(got) != 1 || !strings.Contains(got[0], "position 3") {
		t.Fatalf("unexpected warnings %v", got)
	}
}

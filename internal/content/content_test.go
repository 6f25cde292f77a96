package content_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"contentprep/internal/content"
	"contentprep/internal/services"
)

func TestNewFileDefaults(t *testing.T) {
	f := content.NewFile("pending/course/01-intro.PDF", "", 2048, "")
	if f.Name != "01-intro.PDF" {
		t.Fatalf("unexpected name %q", f.Name)
	}
	if f.Kind != content.KindPDF {
		t.Fatalf("expected pdf kind, got %q", f.Kind)
	}
	if f.Complexity != content.ComplexityMedium {
		t.Fatalf("expected medium complexity, got %q", f.Complexity)
	}
	if f.Dependencies == nil || f.Metadata == nil {
		t.Fatal("expected empty containers, got nil")
	}
	if f.HasRank() {
		t.Fatal("expected new file to be unranked")
	}
}

func TestWithDependenciesDropsSelfAndDuplicates(t *testing.T) {
	f := content.NewFile("a/02.pdf", "", 0, "")
	got := f.WithDependencies("a/01.pdf", "a/02.pdf", "a/01.pdf", "")
	if diff := cmp.Diff([]string{"a/01.pdf"}, got.Dependencies); diff != "" {
		t.Fatalf("dependencies mismatch (-want +got):\n%s", diff)
	}
	if len(f.Dependencies) != 0 {
		t.Fatal("expected original file to stay untouched")
	}
}

func TestWithRankCopies(t *testing.T) {
	f := content.NewFile("a/01.pdf", "", 0, "")
	ranked := f.WithRank(1, "numeric_prefix")
	if f.HasRank() {
		t.Fatal("expected original to remain unranked")
	}
	clone := ranked.Clone()
	*clone.Rank = 7
	if ranked.RankValue() != 1 {
		t.Fatalf("expected clone to own its rank, got %d", ranked.RankValue())
	}
	if ranked.WithoutRank().Pattern != "" {
		t.Fatal("expected pattern cleared")
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to content.Status
		want     bool
	}{
		{content.StatusPending, content.StatusProcessing, true},
		{content.StatusProcessing, content.StatusComplete, true},
		{content.StatusProcessing, content.StatusFailed, true},
		{content.StatusFailed, content.StatusPending, true},
		{content.StatusPending, content.StatusFailed, true},
		{content.StatusPending, content.StatusComplete, false},
		{content.StatusComplete, content.StatusPending, false},
		{content.StatusComplete, content.StatusProcessing, false},
	}
	for _, tt := range tests {
		if got := content.CanTransition(tt.from, tt.to); got != tt.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestInvalidTransitionErrorIsValidation(t *testing.T) {
	var err error = &content.InvalidTransitionError{From: content.StatusComplete, To: content.StatusPending}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := content.ParseStatus(" Processing "); !ok || status != content.StatusProcessing {
		t.Fatalf("unexpected parse result %q %v", status, ok)
	}
	if _, ok := content.ParseStatus("review"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestSetIDDeterministic(t *testing.T) {
	a := content.SetID("pending/python", "numeric:")
	b := content.SetID("pending/python", "numeric:")
	c := content.SetID("pending/other", "numeric:")
	if a != b {
		t.Fatalf("expected stable id, got %s and %s", a, b)
	}
	if a == c {
		t.Fatal("expected folder to scope the id")
	}
}

func TestFingerprintIgnoresOrder(t *testing.T) {
	a := content.Fingerprint([]string{"x/1.pdf", "x/2.pdf"})
	b := content.Fingerprint([]string{"x/2.pdf", "x/1.pdf"})
	if a != b {
		t.Fatal("expected order-independent fingerprint")
	}
	if a == content.Fingerprint([]string{"x/1.pdf"}) {
		t.Fatal("expected membership change to alter fingerprint")
	}
}

func TestSetWithMissing(t *testing.T) {
	set := content.NewSet("Course", "numeric:", "pending", content.MethodPattern, nil)
	if !set.IsComplete || set.MissingPositions == nil {
		t.Fatal("expected new set to be complete with empty missing list")
	}
	gapped := set.WithMissing([]int{5, 3})
	if gapped.IsComplete {
		t.Fatal("expected set with gaps to be incomplete")
	}
	want := []string{"#3 (between 2 and 4)", "#5 (between 4 and 6)"}
	if diff := cmp.Diff(want, gapped.MissingDescriptors()); diff != "" {
		t.Fatalf("descriptors mismatch (-want +got):\n%s", diff)
	}
	if !set.IsComplete {
		t.Fatal("expected original set untouched")
	}
}

func TestSetExtensions(t *testing.T) {
	files := []content.File{
		content.NewFile("p/01.docx", "", 0, ""),
		content.NewFile("p/02.pdf", "", 0, ""),
		content.NewFile("p/03.pdf", "", 0, ""),
		content.NewFile("p/README", "", 0, ""),
	}
	set := content.NewSet("x", "k", "p", content.MethodPattern, files)
	if diff := cmp.Diff([]string{"DOCX", "PDF"}, set.Extensions()); diff != "" {
		t.Fatalf("extensions mismatch (-want +got):\n%s", diff)
	}
}

func TestConfidence(t *testing.T) {
	ranked := func(name string, rank int) content.File {
		return content.NewFile("p/"+name, "", 0, "").WithRank(rank, "numeric_prefix")
	}
	tests := []struct {
		name  string
		files []content.File
		want  float64
	}{
		{name: "empty", files: nil, want: 0},
		{name: "contiguous", files: []content.File{ranked("01.pdf", 1), ranked("02.pdf", 2)}, want: 1},
		{name: "gap", files: []content.File{ranked("01.pdf", 1), ranked("02.pdf", 2), ranked("03.pdf", 3), ranked("05.pdf", 5)}, want: 0.94},
		{name: "unranked only", files: []content.File{content.NewFile("p/a.pdf", "", 0, "")}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := content.Confidence(tt.files); got != tt.want {
				t.Fatalf("Confidence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindFromFilename(t *testing.T) {
	tests := map[string]content.Kind{
		"a.PDF":  content.KindPDF,
		"b.docx": content.KindWord,
		"c.pptx": content.KindSlides,
		"d.xlsx": content.KindSpreadsheet,
		"e.txt":  content.KindText,
		"f.md":   content.KindMarkdown,
		"g.bin":  content.KindOther,
		"noext":  content.KindOther,
	}
	for name, want := range tests {
		if got := content.KindFromFilename(name); got != want {
			t.Fatalf("KindFromFilename(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestParseComplexity(t *testing.T) {
	tests := []struct {
		in   string
		want content.Complexity
		ok   bool
	}{
		{"HIGH", content.ComplexityHigh, true},
		{" low ", content.ComplexityLow, true},
		{"", content.ComplexityMedium, true},
		{"extreme", content.ComplexityMedium, false},
	}
	for _, tt := range tests {
		got, ok := content.ParseComplexity(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseComplexity(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

package manifest_test

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"contentprep/internal/content"
	"contentprep/internal/detect"
	"contentprep/internal/manifest"
	"contentprep/internal/ordering"
	"contentprep/internal/services"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newGenerator(opts manifest.Options) *manifest.Generator {
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return "manifest-1" }
	}
	return manifest.NewGenerator(ordering.NewResolver(ordering.DefaultOptions()), nil, opts)
}

func detectOne(t *testing.T, names ...string) content.Set {
	t.Helper()
	files := make([]content.File, 0, len(names))
	for _, name := range names {
		files = append(files, content.NewFile("pending/"+name, name, 512*1024, ""))
	}
	res := detect.Detect(files, detect.DefaultOptions())
	if len(res.Sets) != 1 {
		t.Fatalf("expected one set from %v, got %d", names, len(res.Sets))
	}
	return res.Sets[0]
}

func TestGenerateCompleteSet(t *testing.T) {
	set := detectOne(t, "module03.pdf", "module01.pdf", "module02.pdf")

	m, err := newGenerator(manifest.Options{}).Generate(context.Background(), set, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := []string{"pending/module01.pdf", "pending/module02.pdf", "pending/module03.pdf"}
	if diff := cmp.Diff(want, m.Paths()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if len(m.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", m.Warnings)
	}
	if m.TotalFiles != 3 || m.SetID != set.ID || m.ID != "manifest-1" {
		t.Fatalf("unexpected manifest header %+v", m)
	}
	if !m.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected created_at %v", m.CreatedAt)
	}
	if m.Context["is_complete"] != true {
		t.Fatalf("expected complete context, got %v", m.Context)
	}
	// three PDFs under 1 MiB at medium complexity
	if m.EstimatedSeconds != 180 {
		t.Fatalf("expected 180s estimate, got %d", m.EstimatedSeconds)
	}
}

func TestGenerateLinksPredecessors(t *testing.T) {
	set := detectOne(t, "01-intro.pdf", "02-basics.pdf", "03-advanced.pdf")

	m, err := newGenerator(manifest.Options{}).Generate(context.Background(), set, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(m.Files[0].Dependencies) != 0 {
		t.Fatalf("first file must have no dependencies, got %v", m.Files[0].Dependencies)
	}
	for i := 1; i < len(m.Files); i++ {
		if diff := cmp.Diff([]string{m.Files[i-1].Path}, m.Files[i].Dependencies); diff != "" {
			t.Fatalf("file %d dependencies (-want +got):\n%s", i, diff)
		}
	}
}

func TestGenerateRefusesIncompleteSet(t *testing.T) {
	set := detectOne(t, "01-intro.pdf", "02-basics.pdf", "04-advanced.pdf")
	gen := newGenerator(manifest.Options{})

	_, err := gen.Generate(context.Background(), set, false)
	var incomplete *manifest.IncompleteSetError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteSetError, got %v", err)
	}
	if diff := cmp.Diff([]int{3}, incomplete.Missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatal("expected validation marker")
	}
	if !strings.Contains(incomplete.Remedy(), "proceed_incomplete=true") {
		t.Fatalf("unexpected remedy %q", incomplete.Remedy())
	}

	m, err := gen.Generate(context.Background(), set, true)
	if err != nil {
		t.Fatalf("Generate with override: %v", err)
	}
	if m.Context["is_complete"] != false || m.Context["proceed_incomplete"] != true {
		t.Fatalf("unexpected context %v", m.Context)
	}
	wantOrder := []string{"pending/01-intro.pdf", "pending/02-basics.pdf", "pending/04-advanced.pdf"}
	if diff := cmp.Diff(wantOrder, m.Paths()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	wantWarnings := []string{"missing sequence position 3 (expected between 2 and 4)"}
	if diff := cmp.Diff(wantWarnings, m.Warnings); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateRecomputesCompleteness(t *testing.T) {
	set := detectOne(t, "01-intro.pdf", "02-basics.pdf", "04-advanced.pdf")
	set.IsComplete = true
	set.MissingPositions = nil

	if _, err := newGenerator(manifest.Options{}).Generate(context.Background(), set, false); err == nil {
		t.Fatal("stale completeness flags must not bypass validation")
	}
}

func TestGenerateIsIdempotentAndOrderIndependent(t *testing.T) {
	set := detectOne(t, "01-intro.pdf", "02-basics.pdf", "03-wrap.pdf")
	set.Files = append(set.Files, content.NewFile("pending/notes.pdf", "", 2048, ""))
	gen := newGenerator(manifest.Options{})

	first, err := gen.Generate(context.Background(), set, false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	rng := rand.New(rand.NewSource(3))
	for range 5 {
		shuffled := set.Clone()
		rng.Shuffle(len(shuffled.Files), func(i, j int) {
			shuffled.Files[i], shuffled.Files[j] = shuffled.Files[j], shuffled.Files[i]
		})
		again, err := gen.Generate(context.Background(), shuffled, false)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("manifest changed between runs (-first +again):\n%s", diff)
		}
	}
	if first.Files[len(first.Files)-1].Name != "notes.pdf" {
		t.Fatalf("unranked file must come last, got %v", content.Names(first.Files))
	}
}

func TestGenerateAllPreservesInputOrder(t *testing.T) {
	complete := detectOne(t, "module01.pdf", "module02.pdf")
	gapped := detectOne(t, "01-a.pdf", "03-c.pdf")
	gen := newGenerator(manifest.Options{Concurrency: 2})

	outcomes, err := gen.GenerateAll(context.Background(), []content.Set{gapped, complete}, false)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].SetID != gapped.ID || outcomes[1].SetID != complete.ID {
		t.Fatal("outcomes out of input order")
	}
	var incomplete *manifest.IncompleteSetError
	if !errors.As(outcomes[0].Err, &incomplete) {
		t.Fatalf("expected incomplete error for gapped set, got %v", outcomes[0].Err)
	}
	if outcomes[1].Err != nil || outcomes[1].Manifest.TotalFiles != 2 {
		t.Fatalf("unexpected outcome %+v", outcomes[1])
	}
}

func TestGenerateAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	set := detectOne(t, "module01.pdf", "module02.pdf")
	if _, err := newGenerator(manifest.Options{}).GenerateAll(ctx, []content.Set{set}, false); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEstimator(t *testing.T) {
	est := manifest.NewEstimator(manifest.DefaultEstimatorConfig())
	cases := []struct {
		name string
		file content.File
		want int
	}{
		{"small pdf", content.NewFile("a.pdf", "", 1000, ""), 60},
		{"three MiB word", content.NewFile("a.docx", "", 3 << 20, ""), 135},
		{"high slides", content.NewFile("a.pptx", "", 0, "").WithComplexity(content.ComplexityHigh), 60},
		{"low markdown", content.NewFile("a.md", "", 0, "").WithComplexity(content.ComplexityLow), 8},
		{"unknown kind", content.NewFile("a.bin", "", 0, ""), 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := est.Estimate([]content.File{tc.file}); got != tc.want {
				t.Fatalf("Estimate = %d, want %d", got, tc.want)
			}
		})
	}
	if got := est.Estimate(nil); got != 0 {
		t.Fatalf("empty estimate = %d", got)
	}
}

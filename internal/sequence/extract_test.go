package sequence_test

import (
	"testing"

	"contentprep/internal/sequence"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		filename string
		kind     sequence.Kind
		rank     int
		stem     string
		keyword  string
	}{
		{"01-intro.pdf", sequence.KindNumericPrefix, 1, "", ""},
		{"2_setup.docx", sequence.KindNumericPrefix, 2, "", ""},
		{"10 wrap up.pdf", sequence.KindNumericPrefix, 10, "", ""},
		{"module01.pdf", sequence.KindKeyword, 1, "module", "module"},
		{"module-01.pdf", sequence.KindKeyword, 1, "module", "module"},
		{"Ch1.pdf", sequence.KindKeyword, 1, "chapter", "chapter"},
		{"ch2.PDF", sequence.KindKeyword, 2, "chapter", "chapter"},
		{"Chapter 3 - Results.pdf", sequence.KindKeyword, 3, "chapter", "chapter"},
		{"python-lecture_4.pdf", sequence.KindKeyword, 4, "python lesson", "lesson"},
		{"Week02.pptx", sequence.KindKeyword, 2, "week", "week"},
		{"section-7.md", sequence.KindKeyword, 7, "section", "section"},
		{"python-course-03.pdf", sequence.KindNumericInfix, 3, "python course", ""},
		{"ii-methods.pdf", sequence.KindRoman, 2, "", ""},
		{"IV.pdf", sequence.KindRoman, 4, "", ""},
		{"b-basics.pdf", sequence.KindLetter, 2, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			m, ok := sequence.Extract(tt.filename)
			if !ok {
				t.Fatalf("expected match for %q", tt.filename)
			}
			if m.Kind != tt.kind {
				t.Fatalf("kind = %q, want %q", m.Kind, tt.kind)
			}
			if m.Rank != tt.rank {
				t.Fatalf("rank = %d, want %d", m.Rank, tt.rank)
			}
			if m.Stem != tt.stem {
				t.Fatalf("stem = %q, want %q", m.Stem, tt.stem)
			}
			if m.Keyword != tt.keyword {
				t.Fatalf("keyword = %q, want %q", m.Keyword, tt.keyword)
			}
		})
	}
}

func TestExtractNoSignal(t *testing.T) {
	for _, name := range []string{
		"intro.pdf",
		"2024-report.pdf",
		"video.mp4",
		"approach1.pdf",
		"",
	} {
		if m, ok := sequence.Extract(name); ok {
			t.Fatalf("expected no match for %q, got %+v", name, m)
		}
	}
}

func TestExtractPriority(t *testing.T) {
	m, ok := sequence.Extract("01-module-05.pdf")
	if !ok {
		t.Fatal("expected match")
	}
	if m.Kind != sequence.KindNumericPrefix || m.Rank != 1 || m.Priority != 0 {
		t.Fatalf("expected numeric prefix to win, got %+v", m)
	}
}

func TestCustomRules(t *testing.T) {
	onlyLetters := sequence.NewExtractor(sequence.DefaultRules()[4])
	if _, ok := onlyLetters.Extract("01-intro.pdf"); ok {
		t.Fatal("expected numeric names to be ignored by letter-only extractor")
	}
	m, ok := onlyLetters.Extract("c-advanced.pdf")
	if !ok || m.Rank != 3 || m.Priority != 0 {
		t.Fatalf("unexpected letter match %+v %v", m, ok)
	}
}

func TestFamily(t *testing.T) {
	tests := map[string]sequence.Family{
		"01-intro.pdf":   sequence.FamilyNumeric,
		"module-01.pdf":  sequence.FamilyKeyword,
		"course-02.pdf":  sequence.FamilyInfix,
		"ii-methods.pdf": sequence.FamilyLetter,
		"a-overview.pdf": sequence.FamilyLetter,
	}
	for name, want := range tests {
		m, ok := sequence.Extract(name)
		if !ok {
			t.Fatalf("expected match for %q", name)
		}
		if got := m.Family(); got != want {
			t.Fatalf("Family(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestHelpers(t *testing.T) {
	if got := sequence.CanonicalKeyword("Lec"); got != "lesson" {
		t.Fatalf("CanonicalKeyword = %q", got)
	}
	if v, ok := sequence.RomanValue("IX"); !ok || v != 9 {
		t.Fatalf("RomanValue = %d %v", v, ok)
	}
	if v, ok := sequence.LetterRank("z"); !ok || v != 26 {
		t.Fatalf("LetterRank = %d %v", v, ok)
	}
}

package textutil

import (
	"strings"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"extension and case", "Python-Course-03.PDF", "python course 03"},
		{"separator runs", "01__intro -- basics.docx", "01 intro basics"},
		{"directory prefix", "pending/course/Ch1.pdf", "ch1"},
		{"leading separators", "_draft.txt", "draft"},
		{"no extension", "README", "readme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCommonPrefix(t *testing.T) {
	if got := CommonPrefix("report 2023 q1", "report 2023 q2"); got != "report 2023 q" {
		t.Errorf("CommonPrefix = %q", got)
	}
	if got := CommonPrefix("abc", ""); got != "" {
		t.Errorf("CommonPrefix with empty = %q", got)
	}
}

func TestHasWordPrefix(t *testing.T) {
	tests := []struct {
		name, prefix string
		want         bool
	}{
		{"chapter final review", "chapter", true},
		{"chapter", "chapter", true},
		{"chapters review", "chapter", false},
		{"intro", "", false},
	}
	for _, tt := range tests {
		if got := HasWordPrefix(tt.name, tt.prefix); got != tt.want {
			t.Errorf("HasWordPrefix(%q, %q) = %v, want %v", tt.name, tt.prefix, got, tt.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	if got := TitleCase("python  course"); got != "Python Course" {
		t.Errorf("TitleCase = %q", got)
	}
	if got := TitleCase("  "); got != "" {
		t.Errorf("TitleCase blank = %q", got)
	}
}

func TestFolderToken(t *testing.T) {
	got := FolderToken("/srv/Pending Courses")
	if !strings.HasPrefix(got, "pending-courses-") || len(got) != len("pending-courses-")+8 {
		t.Fatalf("FolderToken = %q", got)
	}
	if again := FolderToken("/srv/Pending Courses/ "); again != got {
		t.Errorf("trailing separator changed the token: %q vs %q", again, got)
	}
	if other := FolderToken("/mnt/Pending Courses"); other == got {
		t.Errorf("folders sharing a base name must not share a token: %q", other)
	}
	for _, in := range []string{"", "***", "/"} {
		if tok := FolderToken(in); !strings.HasPrefix(tok, "folder-") {
			t.Errorf("FolderToken(%q) = %q, want folder- prefix", in, tok)
		}
	}
}

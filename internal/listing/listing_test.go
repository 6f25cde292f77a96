package listing_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"contentprep/internal/content"
	"contentprep/internal/listing"
	"contentprep/internal/services"
	"contentprep/internal/testsupport"
)

func filenames(entries []listing.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Filename)
	}
	return out
}

func TestDirListerSkipsHiddenAndPartial(t *testing.T) {
	dir := testsupport.WriteFiles(t, t.TempDir(),
		"02-basics.pdf", "01-intro.pdf", ".DS_Store", "03-upload.pdf.part", "sub/04-extra.pdf")

	entries, err := listing.DirLister{}.ListPending(context.Background(), dir)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if diff := cmp.Diff([]string{"01-intro.pdf", "02-basics.pdf"}, filenames(entries)); diff != "" {
		t.Fatalf("entries (-want +got):\n%s", diff)
	}
	first := entries[0]
	if first.Path != filepath.ToSlash(filepath.Join(dir, "01-intro.pdf")) {
		t.Fatalf("unexpected path %q", first.Path)
	}
	if first.SizeBytes != 1024 || first.Kind != content.KindPDF {
		t.Fatalf("unexpected entry %+v", first)
	}
}

func TestDirListerRecursive(t *testing.T) {
	dir := testsupport.WriteFiles(t, t.TempDir(), "a.md", "sub/b.md", ".git/c.md")

	entries, err := listing.DirLister{Recursive: true}.ListPending(context.Background(), dir)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if diff := cmp.Diff([]string{"a.md", "b.md"}, filenames(entries)); diff != "" {
		t.Fatalf("entries (-want +got):\n%s", diff)
	}
}

func TestDirListerErrors(t *testing.T) {
	_, err := listing.DirLister{}.ListPending(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := (listing.DirLister{}).ListPending(context.Background(), " "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestToFiles(t *testing.T) {
	files := listing.ToFiles([]listing.Entry{{Path: "in/x.docx", Filename: "x.docx", SizeBytes: 9, Kind: content.KindWord}})
	if len(files) != 1 || files[0].HasRank() || files[0].Complexity != content.ComplexityMedium || files[0].Kind != content.KindWord {
		t.Fatalf("unexpected files %+v", files)
	}
}

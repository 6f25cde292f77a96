// Package listing enumerates the pending files of an upload folder.
package listing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"contentprep/internal/content"
	"contentprep/internal/services"
)

// Entry is one pending file.
type Entry struct {
	Path      string       `json:"path"`
	Filename  string       `json:"filename"`
	SizeBytes int64        `json:"size_bytes"`
	Kind      content.Kind `json:"kind"`
}

// Lister returns the pending files of a folder.
type Lister interface {
	ListPending(ctx context.Context, folder string) ([]Entry, error)
}

// partialSuffixes mark uploads still in flight.
var partialSuffixes = []string{".part", ".partial", ".tmp", ".crdownload", "~"}

// DirLister lists a local directory. Paths are reported in slash form.
type DirLister struct {
	Recursive     bool
	IncludeHidden bool
}

// ListPending returns regular files under folder sorted by path.
func (l DirLister) ListPending(ctx context.Context, folder string) ([]Entry, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return nil, services.Wrap(services.ErrValidation, "listing", "list pending", "folder is required", nil)
	}
	info, err := os.Stat(folder)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, services.Wrap(services.ErrNotFound, "listing", "list pending", "folder "+folder+" does not exist", err)
	}
	if err != nil {
		return nil, fmt.Errorf("stat folder: %w", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "listing", "list pending", folder+" is not a directory", nil)
	}

	entries := make([]Entry, 0)
	err = filepath.WalkDir(folder, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p == folder {
				return nil
			}
			if !l.Recursive || (!l.IncludeHidden && isHidden(name)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || (!l.IncludeHidden && isHidden(name)) || IsPartial(name) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		entries = append(entries, Entry{
			Path:      filepath.ToSlash(p),
			Filename:  name,
			SizeBytes: fi.Size(),
			Kind:      content.KindFromFilename(name),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// ToFiles converts entries into unranked content files.
func ToFiles(entries []Entry) []content.File {
	files := make([]content.File, 0, len(entries))
	for _, e := range entries {
		files = append(files, content.NewFile(e.Path, e.Filename, e.SizeBytes, e.Kind))
	}
	return files
}

// Skip reports whether a default listing ignores name.
func Skip(name string) bool {
	return isHidden(name) || IsPartial(name)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// IsPartial reports whether name looks like an upload still in flight.
func IsPartial(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"contentprep/internal/content"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, min(size, chunkSize))
	for i := range buf {
		buf[i] = 0x42
	}
	for remaining := size; remaining > 0; {
		n := min(remaining, int64(len(buf)))
		if _, err := f.Write(buf[:n]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= n
	}
}

// WriteFiles creates one small file per name under dir and returns dir.
func WriteFiles(t testing.TB, dir string, names ...string) string {
	t.Helper()
	for _, name := range names {
		WriteFile(t, filepath.Join(dir, name), 1024)
	}
	return dir
}

// Files builds unranked content files under folder for detector and
// resolver tests.
func Files(folder string, names ...string) []content.File {
	out := make([]content.File, 0, len(names))
	for _, name := range names {
		out = append(out, content.NewFile(folder+"/"+name, name, 1024, ""))
	}
	return out
}

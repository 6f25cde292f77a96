package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// FolderToken names per-folder state such as watch locks. The folder's base
// name is kept readable and a short hash of the cleaned path keeps folders
// that share a base name apart.
func FolderToken(folder string) string {
	cleaned := filepath.Clean(strings.TrimSpace(folder))
	sum := sha256.Sum256([]byte(cleaned))
	return slug(filepath.Base(cleaned)) + "-" + hex.EncodeToString(sum[:4])
}

// slug keeps lowercase ASCII letters and digits and turns every other run
// into a single hyphen.
func slug(value string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pending = false
			continue
		}
		pending = true
	}
	if b.Len() == 0 {
		return "folder"
	}
	return b.String()
}

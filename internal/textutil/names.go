package textutil

import (
	"path"
	"strings"
)

// IsSeparator reports whether r separates words in a filename.
func IsSeparator(r rune) bool {
	switch r {
	case '-', '_', ' ', '.', '\t':
		return true
	}
	return false
}

// StripExtension removes the final extension and any directory prefix.
func StripExtension(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// NormalizeName lower-cases a filename without its extension and collapses
// every run of separators into one space.
func NormalizeName(name string) string {
	return CollapseSeparators(strings.ToLower(StripExtension(name)))
}

// CollapseSeparators replaces separator runs with a single space and trims
// the ends.
func CollapseSeparators(value string) string {
	var b strings.Builder
	pending := false
	for _, r := range value {
		if IsSeparator(r) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CommonPrefix returns the longest shared byte prefix of a and b.
func CommonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// HasWordPrefix reports whether name starts with prefix and the prefix ends
// on a word boundary of name.
func HasWordPrefix(name, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(name, prefix) {
		return false
	}
	return len(name) == len(prefix) || name[len(prefix)] == ' '
}

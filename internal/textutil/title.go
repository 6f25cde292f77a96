package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase converts a normalized stem such as "python course" into
// "Python Course".
func TitleCase(value string) string {
	value = CollapseSeparators(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	return cases.Title(language.Und).String(value)
}

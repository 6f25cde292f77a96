package content

import (
	"path"
	"strings"
)

// Kind classifies a file by its extension.
type Kind string

const (
	KindPDF         Kind = "pdf"
	KindWord        Kind = "word"
	KindSlides      Kind = "slides"
	KindSpreadsheet Kind = "spreadsheet"
	KindText        Kind = "text"
	KindMarkdown    Kind = "markdown"
	KindOther       Kind = "other"
)

var extensionKinds = map[string]Kind{
	".pdf":      KindPDF,
	".doc":      KindWord,
	".docx":     KindWord,
	".odt":      KindWord,
	".rtf":      KindWord,
	".ppt":      KindSlides,
	".pptx":     KindSlides,
	".odp":      KindSlides,
	".key":      KindSlides,
	".xls":      KindSpreadsheet,
	".xlsx":     KindSpreadsheet,
	".ods":      KindSpreadsheet,
	".csv":      KindSpreadsheet,
	".txt":      KindText,
	".md":       KindMarkdown,
	".markdown": KindMarkdown,
}

// KindFromFilename infers the kind from the filename extension.
func KindFromFilename(name string) Kind {
	if kind, ok := extensionKinds[strings.ToLower(path.Ext(name))]; ok {
		return kind
	}
	return KindOther
}

// Extension returns the upper-cased extension without the dot ("PDF"), or an
// empty string when the name has none.
func Extension(name string) string {
	return strings.ToUpper(strings.TrimPrefix(path.Ext(name), "."))
}

// Complexity is the processing effort class of a file.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ParseComplexity normalizes a complexity label; unknown labels report false.
func ParseComplexity(value string) (Complexity, bool) {
	switch Complexity(strings.ToLower(strings.TrimSpace(value))) {
	case ComplexityLow:
		return ComplexityLow, true
	case ComplexityMedium, "":
		return ComplexityMedium, true
	case ComplexityHigh:
		return ComplexityHigh, true
	default:
		return ComplexityMedium, false
	}
}

// Method records how a content set was formed.
type Method string

const (
	MethodPattern   Method = "pattern"
	MethodPrefix    Method = "prefix"
	MethodIndicator Method = "indicator"
	MethodManual    Method = "manual"
)

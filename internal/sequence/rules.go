package sequence

import (
	"regexp"
	"strconv"
	"strings"

	"contentprep/internal/textutil"
)

// Matcher inspects a lower-cased base name and reports a match.
type Matcher func(base string) (Match, bool)

// Rule is one entry in the extraction table.
type Rule struct {
	Kind  Kind
	Match Matcher
}

var (
	numericPrefixPattern = regexp.MustCompile(`^(\d{1,3})(?:[-_\s.]|$)`)
	keywordPattern       = regexp.MustCompile(`(?:^|[^a-z])(module|chapter|chap|ch|lesson|lecture|lec|part|week|unit|section|episode|ep|volume|vol)[-_\s.]*(\d{1,3})(?:[^0-9]|$)`)
	numericInfixPattern  = regexp.MustCompile(`[-_\s.](\d{1,3})(?:[-_\s.]|$)`)
	romanPattern         = regexp.MustCompile(`^(viii|vii|iii|ix|iv|vi|ii|x|v|i)(?:[-_\s.]|$)`)
	letterPattern        = regexp.MustCompile(`^([a-hj-uwyz])(?:[-_\s.]|$)`)
)

var keywordAliases = map[string]string{
	"chap":    "chapter",
	"ch":      "chapter",
	"lecture": "lesson",
	"lec":     "lesson",
	"ep":      "episode",
	"vol":     "volume",
}

var romanValues = map[string]int{
	"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5,
	"vi": 6, "vii": 7, "viii": 8, "ix": 9, "x": 10,
}

// DefaultRules returns the default extraction table in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Kind: KindNumericPrefix, Match: matchNumericPrefix},
		{Kind: KindKeyword, Match: matchKeyword},
		{Kind: KindNumericInfix, Match: matchNumericInfix},
		{Kind: KindRoman, Match: matchRoman},
		{Kind: KindLetter, Match: matchLetter},
	}
}

// CanonicalKeyword maps keyword aliases such as "ch" to their canonical form.
func CanonicalKeyword(keyword string) string {
	keyword = strings.ToLower(keyword)
	if canonical, ok := keywordAliases[keyword]; ok {
		return canonical
	}
	return keyword
}

// RomanValue returns the value of a roman numeral between i and x.
func RomanValue(token string) (int, bool) {
	v, ok := romanValues[strings.ToLower(token)]
	return v, ok
}

// LetterRank returns the alphabet position of a single lower-case letter.
func LetterRank(token string) (int, bool) {
	if len(token) != 1 || token[0] < 'a' || token[0] > 'z' {
		return 0, false
	}
	return int(token[0]-'a') + 1, true
}

func matchNumericPrefix(base string) (Match, bool) {
	loc := numericPrefixPattern.FindStringSubmatchIndex(base)
	if loc == nil {
		return Match{}, false
	}
	return digitsMatch(KindNumericPrefix, base, loc[2], loc[3], "")
}

func matchKeyword(base string) (Match, bool) {
	loc := keywordPattern.FindStringSubmatchIndex(base)
	if loc == nil {
		return Match{}, false
	}
	keyword := CanonicalKeyword(base[loc[2]:loc[3]])
	m, ok := digitsMatch(KindKeyword, base, loc[4], loc[5], keyword)
	if !ok {
		return Match{}, false
	}
	m.Start = loc[2]
	m.Keyword = keyword
	m.Stem = joinStem(textutil.CollapseSeparators(base[:loc[2]]), keyword)
	return m, true
}

func matchNumericInfix(base string) (Match, bool) {
	loc := numericInfixPattern.FindStringSubmatchIndex(base)
	if loc == nil {
		return Match{}, false
	}
	m, ok := digitsMatch(KindNumericInfix, base, loc[2], loc[3], "")
	if !ok {
		return Match{}, false
	}
	m.Stem = textutil.CollapseSeparators(base[:loc[0]])
	return m, true
}

func matchRoman(base string) (Match, bool) {
	loc := romanPattern.FindStringSubmatchIndex(base)
	if loc == nil {
		return Match{}, false
	}
	raw := base[loc[2]:loc[3]]
	rank, ok := RomanValue(raw)
	if !ok {
		return Match{}, false
	}
	return Match{Kind: KindRoman, Raw: raw, Rank: rank, Start: loc[2], End: loc[3], Base: base}, true
}

func matchLetter(base string) (Match, bool) {
	loc := letterPattern.FindStringSubmatchIndex(base)
	if loc == nil {
		return Match{}, false
	}
	raw := base[loc[2]:loc[3]]
	rank, ok := LetterRank(raw)
	if !ok {
		return Match{}, false
	}
	return Match{Kind: KindLetter, Raw: raw, Rank: rank, Start: loc[2], End: loc[3], Base: base}, true
}

func digitsMatch(kind Kind, base string, start, end int, keyword string) (Match, bool) {
	raw := base[start:end]
	rank, err := strconv.Atoi(raw)
	if err != nil {
		return Match{}, false
	}
	return Match{Kind: kind, Raw: raw, Rank: rank, Keyword: keyword, Start: start, End: end, Base: base}, true
}

func joinStem(prefix, keyword string) string {
	if prefix == "" {
		return keyword
	}
	return prefix + " " + keyword
}

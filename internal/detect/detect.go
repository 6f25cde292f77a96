package detect

import (
	"path"
	"sort"
	"strings"

	"contentprep/internal/completeness"
	"contentprep/internal/content"
	"contentprep/internal/sequence"
	"contentprep/internal/textutil"
)

// Result is the outcome of one detection pass.
type Result struct {
	// Mode is the strategy that produced the sets; auto resolves to pattern
	// or prefix.
	Mode       Mode           `json:"mode"`
	Sets       []content.Set  `json:"sets"`
	Standalone []content.File `json:"standalone"`
}

type member struct {
	file    content.File
	norm    string
	match   sequence.Match
	matched bool
}

type group struct {
	key     string
	stem    string
	family  sequence.Family
	members []member
}

// Detect partitions files into content sets and standalone files. Every
// input file lands in exactly one set or in Standalone. Files repeating an
// earlier path are ignored.
func Detect(files []content.File, opts Options) Result {
	opts = opts.normalized()
	members := collectMembers(files, opts.Extractor)

	switch opts.Mode {
	case ModePattern:
		return build(ModePattern, patternGroups(members, opts), opts)
	case ModePrefix:
		return build(ModePrefix, prefixGroups(members, opts), opts)
	}

	groups := patternGroups(members, opts)
	for _, g := range groups {
		if len(g.members) > 1 {
			return build(ModePattern, groups, opts)
		}
	}
	return build(ModePrefix, prefixGroups(members, opts), opts)
}

func collectMembers(files []content.File, extractor *sequence.Extractor) []member {
	seen := make(map[string]struct{}, len(files))
	members := make([]member, 0, len(files))
	for _, f := range files {
		if _, ok := seen[f.Path]; ok {
			continue
		}
		seen[f.Path] = struct{}{}
		name := f.Name
		if name == "" {
			name = path.Base(f.Path)
		}
		m, ok := extractor.Extract(name)
		members = append(members, member{
			file:    f,
			norm:    textutil.NormalizeName(name),
			match:   m,
			matched: ok,
		})
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].file.Path < members[j].file.Path
	})
	return members
}

func build(mode Mode, groups []*group, opts Options) Result {
	result := Result{Mode: mode, Sets: []content.Set{}, Standalone: []content.File{}}
	for _, g := range groups {
		method := content.MethodPattern
		if mode == ModePrefix {
			method = content.MethodPrefix
		}
		switch {
		case len(g.members) > 1:
		case len(g.members) == 1 && hasIndicator(g.members[0].norm, opts.Indicators):
			method = content.MethodIndicator
		default:
			for _, m := range g.members {
				result.Standalone = append(result.Standalone, m.file.WithoutRank())
			}
			continue
		}
		result.Sets = append(result.Sets, buildSet(g, method))
	}
	sort.Slice(result.Sets, func(i, j int) bool {
		if result.Sets[i].Key != result.Sets[j].Key {
			return result.Sets[i].Key < result.Sets[j].Key
		}
		return result.Sets[i].ID < result.Sets[j].ID
	})
	sort.Slice(result.Standalone, func(i, j int) bool {
		return result.Standalone[i].Path < result.Standalone[j].Path
	})
	return result
}

func buildSet(g *group, method content.Method) content.Set {
	disambiguateLetters(g)
	files := make([]content.File, 0, len(g.members))
	for _, m := range g.members {
		if m.matched && m.match.Family() == g.family {
			files = append(files, m.file.WithRank(m.match.Rank, string(m.match.Kind)))
			continue
		}
		files = append(files, m.file.WithoutRank())
	}
	folder := CommonFolder(files)
	set := content.NewSet("", g.key, folder, method, files)
	set.Name = displayName(g.stem, folder, set.Extensions())
	set.Confidence = content.Confidence(set.Files)
	if g.family != "" {
		set.Metadata["sequence_family"] = string(g.family)
	}
	if g.stem != "" {
		set.Metadata["stem"] = g.stem
	}
	set, _ = completeness.Apply(set)
	return set
}

// disambiguateLetters re-ranks single-character roman matches (i, v, x) as
// letters when the group also holds plain letter matches.
func disambiguateLetters(g *group) {
	if g.family != sequence.FamilyLetter {
		return
	}
	hasLetter := false
	for _, m := range g.members {
		if m.matched && m.match.Kind == sequence.KindLetter {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return
	}
	for i := range g.members {
		m := &g.members[i]
		if !m.matched || m.match.Kind != sequence.KindRoman || len(m.match.Raw) != 1 {
			continue
		}
		if rank, ok := sequence.LetterRank(m.match.Raw); ok {
			m.match.Kind = sequence.KindLetter
			m.match.Rank = rank
		}
	}
}

func hasIndicator(norm string, indicators []string) bool {
	for _, indicator := range indicators {
		indicator = strings.ToLower(strings.TrimSpace(indicator))
		if indicator != "" && strings.Contains(norm, indicator) {
			return true
		}
	}
	return false
}

func displayName(stem, folder string, extensions []string) string {
	name := textutil.TitleCase(stem)
	if name == "" && folder != "" && folder != "." && folder != "/" {
		name = textutil.TitleCase(textutil.CollapseSeparators(path.Base(folder)))
	}
	if name == "" {
		name = "Untitled Set"
	}
	if len(extensions) > 0 {
		name += " (" + strings.Join(extensions, ", ") + ")"
	}
	return name
}

// CommonFolder returns the deepest directory shared by every member path.
func CommonFolder(files []content.File) string {
	if len(files) == 0 {
		return ""
	}
	folder := path.Dir(files[0].Path)
	for _, f := range files[1:] {
		dir := path.Dir(f.Path)
		for folder != "." && folder != "/" && dir != folder && !strings.HasPrefix(dir, folder+"/") {
			folder = path.Dir(folder)
		}
	}
	return folder
}

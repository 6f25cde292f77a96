package detect

import (
	"sort"
	"strings"

	"contentprep/internal/textutil"
)

// prefixGroups clusters members whose sorted normalized names share a
// leading prefix of at least MinPrefixLength characters.
func prefixGroups(members []member, opts Options) []*group {
	sorted := append([]member(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].norm != sorted[j].norm {
			return sorted[i].norm < sorted[j].norm
		}
		return sorted[i].file.Path < sorted[j].file.Path
	})

	var groups []*group
	var current []member
	prefix := ""
	flush := func() {
		if len(current) == 0 {
			return
		}
		shared := strings.TrimRight(prefix, " ")
		stem := strings.TrimRight(shared, " 0123456789")
		if stem == "" {
			stem = shared
		}
		g := &group{key: "prefix:" + shared, stem: stem, members: current}
		g.family = dominantFamily(g.members)
		sortMembers(g.members)
		groups = append(groups, g)
		current = nil
	}

	for _, m := range sorted {
		if len(current) == 0 {
			current = []member{m}
			prefix = m.norm
			continue
		}
		shared := textutil.CommonPrefix(prefix, m.norm)
		if len(strings.TrimRight(shared, " ")) >= opts.MinPrefixLength {
			current = append(current, m)
			prefix = shared
			continue
		}
		flush()
		current = []member{m}
		prefix = m.norm
	}
	flush()
	return groups
}

package detect

import (
	"sort"

	"contentprep/internal/sequence"
	"contentprep/internal/textutil"
)

// patternGroups groups ranked members by family and stem, then attaches
// unranked members to the longest qualifying stem that prefixes their name.
func patternGroups(members []member, opts Options) []*group {
	byKey := make(map[string]*group)
	var order []*group
	var unranked []member
	for _, m := range members {
		if !m.matched {
			unranked = append(unranked, m)
			continue
		}
		family := m.match.Family()
		key := string(family) + ":" + m.match.Stem
		g, ok := byKey[key]
		if !ok {
			g = &group{key: key, stem: m.match.Stem, family: family}
			byKey[key] = g
			order = append(order, g)
		}
		g.members = append(g.members, m)
	}

	stemmed := make([]*group, 0, len(order))
	for _, g := range order {
		if len(g.stem) >= opts.MinPrefixLength {
			stemmed = append(stemmed, g)
		}
	}
	sort.Slice(stemmed, func(i, j int) bool {
		if len(stemmed[i].stem) != len(stemmed[j].stem) {
			return len(stemmed[i].stem) > len(stemmed[j].stem)
		}
		return stemmed[i].key < stemmed[j].key
	})

	for _, m := range unranked {
		var target *group
		for _, g := range stemmed {
			if textutil.HasWordPrefix(m.norm, g.stem) {
				target = g
				break
			}
		}
		if target == nil {
			key := "name:" + m.norm
			g, ok := byKey[key]
			if !ok {
				g = &group{key: key, stem: m.norm}
				byKey[key] = g
				order = append(order, g)
			}
			target = g
		}
		target.members = append(target.members, m)
	}

	for _, g := range order {
		sortMembers(g.members)
	}
	return order
}

func sortMembers(members []member) {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].file.Path < members[j].file.Path
	})
}

// dominantFamily picks the rank family shared by most members. Ties go to
// the family that sorts first.
func dominantFamily(members []member) sequence.Family {
	counts := make(map[sequence.Family]int)
	for _, m := range members {
		if m.matched {
			counts[m.match.Family()]++
		}
	}
	var best sequence.Family
	bestCount := 0
	for family, n := range counts {
		if n > bestCount || (n == bestCount && family < best) {
			best, bestCount = family, n
		}
	}
	return best
}

package recommendation

import "sort"

// SelectTopN picks up to n courses, trading a little score for variety.
//
// The highest scorer is taken first (ties go to the earlier course). Each
// later pick is the best remaining course that adds a pathway or level not
// yet selected; when none does, the best remaining course is taken anyway.
// Duplicate course IDs keep only their best-scored entry.
func SelectTopN(scored []ScoredCourse, n int) []ScoredCourse {
	if len(scored) == 0 || n <= 0 {
		return []ScoredCourse{}
	}

	order := make([]int, len(scored))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scored[order[a]].RelevanceScore > scored[order[b]].RelevanceScore
	})

	remaining := make([]int, 0, len(order))
	ids := make(map[string]struct{}, len(order))
	for _, idx := range order {
		id := scored[idx].Course.ID
		if _, dup := ids[id]; dup {
			continue
		}
		ids[id] = struct{}{}
		remaining = append(remaining, idx)
	}

	selected := make([]ScoredCourse, 0, min(n, len(remaining)))
	seenPathways := make(stringSet)
	seenLevels := make(stringSet)
	take := func(pos int) {
		c := scored[remaining[pos]]
		selected = append(selected, c)
		for _, p := range c.Course.CareerPathways {
			if k := normalize(p); k != "" {
				seenPathways[k] = struct{}{}
			}
		}
		seenLevels[string(ParseLevel(string(c.Course.Level)))] = struct{}{}
		remaining = append(remaining[:pos], remaining[pos+1:]...)
	}

	take(0)
	for len(selected) < n && len(remaining) > 0 {
		pick := 0
		for pos, idx := range remaining {
			if addsNovelty(scored[idx].Course, seenPathways, seenLevels) {
				pick = pos
				break
			}
		}
		take(pick)
	}
	return selected
}

func addsNovelty(c Course, pathways, levels stringSet) bool {
	if !levels.has(string(ParseLevel(string(c.Level)))) {
		return true
	}
	for _, p := range c.CareerPathways {
		if normalize(p) != "" && !pathways.has(p) {
			return true
		}
	}
	return false
}

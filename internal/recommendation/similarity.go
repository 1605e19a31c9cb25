package recommendation

// stringSet is a case-insensitive set of labels.
type stringSet map[string]struct{}

func newStringSet(items ...[]string) stringSet {
	s := make(stringSet)
	for _, list := range items {
		for _, item := range list {
			if k := normalize(item); k != "" {
				s[k] = struct{}{}
			}
		}
	}
	return s
}

func (s stringSet) has(item string) bool {
	_, ok := s[normalize(item)]
	return ok
}

func (s stringSet) clone() stringSet {
	out := make(stringSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Jaccard returns |A∩B| / |A∪B| over lower-cased labels, or 0 when both are empty.
func Jaccard(a, b []string) float64 {
	setA := newStringSet(a)
	setB := newStringSet(b)

	intersection := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// missingFrom returns the items of list that are not in set, deduplicated,
// keeping their original spelling and order.
func missingFrom(list []string, set stringSet) []string {
	var out []string
	seen := make(stringSet)
	for _, item := range list {
		k := normalize(item)
		if k == "" || set.has(k) || seen.has(k) {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

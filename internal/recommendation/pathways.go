package recommendation

import "math"

// DerivePathways maps assessment scores to candidate career pathways.
//
// Unknown categories are skipped. When nothing matches, every pathway in the
// tables is returned instead, so the result is never empty for non-empty
// tables. The result holds at most cfg.MaxPathways labels in first-seen order.
func DerivePathways(tables Tables, cfg Config, scores []AssessmentScore) []string {
	pathways, _ := DerivePathwaysWithFallback(tables, cfg, scores)
	return pathways
}

// DerivePathwaysWithFallback is DerivePathways that also reports whether the
// full-table fallback was used.
func DerivePathwaysWithFallback(tables Tables, cfg Config, scores []AssessmentScore) ([]string, bool) {
	var out []string
	seen := make(stringSet)
	add := func(labels []string) {
		for _, p := range labels {
			if normalize(p) == "" || seen.has(p) {
				continue
			}
			seen[normalize(p)] = struct{}{}
			out = append(out, p)
		}
	}

	for _, s := range scores {
		b, ok := tables.bands(s.Category)
		if !ok {
			continue
		}
		add(b.pick(cfg.scoreBand(clampScore(s.Score))))
	}

	fallback := len(out) == 0
	if fallback {
		for _, cat := range tables.Order {
			b := tables.PathwayBands[cat]
			add(b.Low)
			add(b.Medium)
			add(b.High)
		}
	}

	if len(out) > cfg.MaxPathways {
		out = out[:cfg.MaxPathways]
	}
	return out, fallback
}

// clampScore bounds an assessment score to [0,100]. NaN counts as zero.
func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func averageScore(scores []AssessmentScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range scores {
		total += clampScore(s.Score)
	}
	return total / float64(len(scores))
}

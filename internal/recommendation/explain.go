package recommendation

import (
	"fmt"
	"strings"
)

const maxListedSkills = 3

// Explain renders human-readable reasons for a scored course. The thresholds
// follow the factor scales of the strategy that produced the score.
func Explain(sc ScoredCourse) []string {
	name := sc.Course.Title
	if name == "" {
		name = sc.Course.Code
	}
	out := []string{fmt.Sprintf("Consider the %s program which aligns with your interests.", name)}

	f := sc.MatchFactors
	level := ParseLevel(string(sc.Course.Level))

	switch sc.Strategy {
	case StrategyWeighted:
		if f[FactorCareerPathwayMatch] > 0.8 && len(sc.Course.CareerPathways) > 0 {
			out = append(out, fmt.Sprintf("It aligns closely with your career pathways: %s.",
				strings.Join(sc.Course.CareerPathways, ", ")))
		}
		if f[FactorLevelMatch] < 0.8 {
			out = append(out, fmt.Sprintf("This %s course builds on knowledge beyond your current level.", level))
		}
		if f[FactorSkillGapMatch] > 0 && len(sc.NewSkills) > 0 {
			out = append(out, fmt.Sprintf("You will develop new skills: %s.", listSkills(sc.NewSkills)))
		}
		if len(sc.Course.Requirements) > 0 {
			switch {
			case f[FactorPrerequisiteMatch] >= 1:
				out = append(out, "You already meet all of its prerequisites.")
			case f[FactorPrerequisiteMatch] < 0.5:
				out = append(out, fmt.Sprintf("Review the prerequisites before enrolling: %s.",
					strings.Join(sc.Course.Requirements, ", ")))
			}
		}
	default:
		if len(sc.MatchedPathways) > 0 {
			out = append(out, fmt.Sprintf("It matches your recommended pathways: %s.",
				strings.Join(sc.MatchedPathways, ", ")))
		}
		if f[FactorLevelMatch] >= 20 {
			out = append(out, fmt.Sprintf("Its %s level suits your assessment profile.", level))
		}
		if f[FactorSkillsMatch] >= 10 && len(sc.Course.SkillsDeveloped) > 0 {
			out = append(out, fmt.Sprintf("It develops skills linked to your strongest areas: %s.",
				listSkills(sc.Course.SkillsDeveloped)))
		}
		if f[FactorDiversityBonus] >= 10 {
			out = append(out, "It adds variety to your learning plan.")
		}
	}
	return out
}

func listSkills(skills []string) string {
	if len(skills) > maxListedSkills {
		skills = skills[:maxListedSkills]
	}
	return strings.Join(skills, ", ")
}

package models

import (
	"strings"

	"course-recommendation-workers/internal/recommendation"
)

// CourseRecord is a row of the courses table and a document of the course index.
type CourseRecord struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Code            string   `json:"code"`
	Description     string   `json:"description,omitempty"`
	Level           string   `json:"level"`
	Duration        string   `json:"duration,omitempty"`
	CareerPathways  []string `json:"career_pathways"`
	Requirements    []string `json:"requirements"`
	SkillsDeveloped []string `json:"skills_developed"`
	IsActive        bool     `json:"is_active"`
}

func (r CourseRecord) ToCourse() recommendation.Course {
	return recommendation.Course{
		ID:              r.ID,
		Title:           r.Title,
		Code:            r.Code,
		Description:     r.Description,
		Level:           recommendation.ParseLevel(r.Level),
		Duration:        r.Duration,
		CareerPathways:  r.CareerPathways,
		Requirements:    r.Requirements,
		SkillsDeveloped: r.SkillsDeveloped,
		IsActive:        r.IsActive,
	}
}

func ToCourses(records []CourseRecord) []recommendation.Course {
	out := make([]recommendation.Course, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToCourse())
	}
	return out
}

func FromCourse(c recommendation.Course) CourseRecord {
	return CourseRecord{
		ID:              c.ID,
		Title:           c.Title,
		Code:            c.Code,
		Description:     c.Description,
		Level:           string(recommendation.ParseLevel(string(c.Level))),
		Duration:        c.Duration,
		CareerPathways:  c.CareerPathways,
		Requirements:    c.Requirements,
		SkillsDeveloped: c.SkillsDeveloped,
		IsActive:        c.IsActive,
	}
}

// PathwayTerms lower-cases pathway labels for the normalized career_pathways
// keyword field. Blank labels and duplicates are dropped.
func PathwayTerms(pathways []string) []string {
	out := make([]string, 0, len(pathways))
	seen := make(map[string]struct{}, len(pathways))
	for _, p := range pathways {
		term := strings.ToLower(strings.TrimSpace(p))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

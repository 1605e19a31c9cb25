package recommendation

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidWeights    = errors.New("scoring weights must sum to 1.0")
	ErrInvalidThresholds = errors.New("score thresholds must satisfy 0 < medium < high <= 100")
	ErrInvalidLimits     = errors.New("maxPathways and defaultLimit must be positive")
)

// Thresholds split a 0-100 score into low, medium and high bands.
type Thresholds struct {
	Medium float64 `json:"medium" mapstructure:"medium"`
	High   float64 `json:"high" mapstructure:"high"`
}

// PathwayPoints are the score-band pathwayMatch ceilings for 0, 1 and 2+ matches.
type PathwayPoints struct {
	None float64 `json:"none"`
	One  float64 `json:"one"`
	Many float64 `json:"many"`
}

// DiversityPoints configures the order-dependent novelty bonus.
type DiversityPoints struct {
	PerPathway float64 `json:"perPathway"`
	PathwayCap float64 `json:"pathwayCap"`
	NewLevel   float64 `json:"newLevel"`
	PerSkill   float64 `json:"perSkill"`
	SkillCap   float64 `json:"skillCap"`
}

// Weights are the weighted-strategy factor weights. They must sum to 1.
type Weights struct {
	CareerPathway float64 `json:"careerPathway" mapstructure:"career_pathway"`
	SkillGap      float64 `json:"skillGap" mapstructure:"skill_gap"`
	Level         float64 `json:"level" mapstructure:"level"`
	Prerequisite  float64 `json:"prerequisite" mapstructure:"prerequisite"`
	UserHistory   float64 `json:"userHistory" mapstructure:"user_history"`
}

func (w Weights) sum() float64 {
	return w.CareerPathway + w.SkillGap + w.Level + w.Prerequisite + w.UserHistory
}

// Config holds the tunable numbers of both scoring strategies.
type Config struct {
	Thresholds    Thresholds      `json:"thresholds"`
	PathwayPoints PathwayPoints   `json:"pathwayPoints"`
	Diversity     DiversityPoints `json:"diversity"`
	Weights       Weights         `json:"weights"`

	DefaultLevelMatch    float64 `json:"defaultLevelMatch"`
	DefaultSkillsMatch   float64 `json:"defaultSkillsMatch"`
	DefaultCategoryMatch float64 `json:"defaultCategoryMatch"`
	MaxSkillsMatch       float64 `json:"maxSkillsMatch"`
	MaxCategoryMatch     float64 `json:"maxCategoryMatch"`
	MaxScore             int     `json:"maxScore"`

	AdjacentLevelMatch float64 `json:"adjacentLevelMatch"`
	NoHistoryMatch     float64 `json:"noHistoryMatch"`

	MaxPathways  int `json:"maxPathways"`
	DefaultLimit int `json:"defaultLimit"`
}

// DefaultConfig returns the stock scoring configuration.
func DefaultConfig() Config {
	return Config{
		Thresholds:    Thresholds{Medium: 40, High: 70},
		PathwayPoints: PathwayPoints{None: 10, One: 20, Many: 30},
		Diversity: DiversityPoints{
			PerPathway: 2,
			PathwayCap: 5,
			NewLevel:   5,
			PerSkill:   1,
			SkillCap:   5,
		},
		Weights: Weights{
			CareerPathway: 0.35,
			SkillGap:      0.25,
			Level:         0.15,
			Prerequisite:  0.15,
			UserHistory:   0.10,
		},
		DefaultLevelMatch:    15,
		DefaultSkillsMatch:   10,
		DefaultCategoryMatch: 5,
		MaxSkillsMatch:       20,
		MaxCategoryMatch:     15,
		MaxScore:             100,
		AdjacentLevelMatch:   0.8,
		NoHistoryMatch:       0.5,
		MaxPathways:          5,
		DefaultLimit:         5,
	}
}

// Validate checks the configuration for internally inconsistent values.
func (c Config) Validate() error {
	if math.Abs(c.Weights.sum()-1.0) > 0.001 {
		return fmt.Errorf("%w: got %.3f", ErrInvalidWeights, c.Weights.sum())
	}
	if c.Thresholds.Medium <= 0 || c.Thresholds.High <= c.Thresholds.Medium || c.Thresholds.High > 100 {
		return fmt.Errorf("%w: medium=%.1f high=%.1f", ErrInvalidThresholds, c.Thresholds.Medium, c.Thresholds.High)
	}
	if c.MaxPathways < 1 || c.DefaultLimit < 1 {
		return ErrInvalidLimits
	}
	return nil
}

type band int

const (
	bandLow band = iota
	bandMedium
	bandHigh
)

// scoreBand buckets a single assessment score: < medium, < high, >= high.
func (c Config) scoreBand(score float64) band {
	switch {
	case score < c.Thresholds.Medium:
		return bandLow
	case score < c.Thresholds.High:
		return bandMedium
	default:
		return bandHigh
	}
}

// averageBand buckets the mean score for the level-preference matrix: <= medium, <= high, > high.
func (c Config) averageBand(avg float64) band {
	switch {
	case avg <= c.Thresholds.Medium:
		return bandLow
	case avg <= c.Thresholds.High:
		return bandMedium
	default:
		return bandHigh
	}
}

package recommendation

import (
	"errors"
	"fmt"
	"strings"

	"course-recommendation-workers/pkg/registry"
)

var ErrNoPathways = errors.New("lookup tables define no career pathways")

// Bands lists the pathways suggested for a low, medium or high score.
type Bands struct {
	Low    []string
	Medium []string
	High   []string
}

func (b Bands) pick(bd band) []string {
	switch bd {
	case bandHigh:
		return b.High
	case bandMedium:
		return b.Medium
	default:
		return b.Low
	}
}

// LevelPoints maps a course level to levelMatch points.
type LevelPoints map[Level]float64

// LevelMatrix selects LevelPoints by the learner's average-score band.
type LevelMatrix struct {
	Low    LevelPoints
	Medium LevelPoints
	High   LevelPoints
}

func (m LevelMatrix) pick(bd band) LevelPoints {
	switch bd {
	case bandHigh:
		return m.High
	case bandMedium:
		return m.Medium
	default:
		return m.Low
	}
}

// Tables are the lookup tables behind pathway derivation and score-band
// scoring. Category keys are lower-case. Order fixes iteration order.
type Tables struct {
	Order            []string
	PathwayBands     map[string]Bands
	LevelPreferences map[string]LevelMatrix
	CategoryKeywords map[string][]string
}

func (t Tables) bands(category string) (Bands, bool) {
	b, ok := t.PathwayBands[normalize(category)]
	return b, ok
}

func (t Tables) levelMatrix(category string) (LevelMatrix, bool) {
	m, ok := t.LevelPreferences[normalize(category)]
	return m, ok
}

func (t Tables) keywords(category string) []string {
	return t.CategoryKeywords[normalize(category)]
}

// Validate reports tables that cannot produce a fallback pathway set.
func (t Tables) Validate() error {
	for _, cat := range t.Order {
		b := t.PathwayBands[cat]
		if len(b.Low)+len(b.Medium)+len(b.High) > 0 {
			return nil
		}
	}
	return ErrNoPathways
}

// DefaultTables returns a fresh copy of the built-in lookup tables.
func DefaultTables() Tables {
	return Tables{
		Order: []string{"personality", "career", "academic", "aptitude", "interest"},
		PathwayBands: map[string]Bands{
			"personality": {
				Low:    []string{"Technical Support", "Quality Assurance"},
				Medium: []string{"Project Coordination", "Business Analysis"},
				High:   []string{"Team Leadership", "Product Management"},
			},
			"career": {
				Low:    []string{"IT Support", "Data Entry"},
				Medium: []string{"Web Development", "Database Administration"},
				High:   []string{"Software Architecture", "Data Science"},
			},
			"academic": {
				Low:    []string{"Foundational Computing"},
				Medium: []string{"Software Development", "Data Analysis"},
				High:   []string{"Research", "Machine Learning"},
			},
			"aptitude": {
				Low:    []string{"Technical Support"},
				Medium: []string{"Software Development", "Network Administration"},
				High:   []string{"Software Architecture", "Cybersecurity"},
			},
			"interest": {
				Low:    []string{"Digital Literacy"},
				Medium: []string{"Web Development", "UX Design"},
				High:   []string{"Data Science", "Cloud Engineering"},
			},
		},
		LevelPreferences: map[string]LevelMatrix{
			"personality": {
				Low:    LevelPoints{LevelBeginner: 20, LevelIntermediate: 15, LevelAdvanced: 10},
				Medium: LevelPoints{LevelBeginner: 15, LevelIntermediate: 20, LevelAdvanced: 15},
				High:   LevelPoints{LevelBeginner: 10, LevelIntermediate: 15, LevelAdvanced: 20},
			},
			"aptitude": {
				Low:    LevelPoints{LevelBeginner: 25, LevelIntermediate: 15, LevelAdvanced: 10},
				Medium: LevelPoints{LevelBeginner: 15, LevelIntermediate: 25, LevelAdvanced: 15},
				High:   LevelPoints{LevelBeginner: 10, LevelIntermediate: 15, LevelAdvanced: 25},
			},
			"interest": {
				Low:    LevelPoints{LevelBeginner: 20, LevelIntermediate: 15, LevelAdvanced: 10},
				Medium: LevelPoints{LevelBeginner: 15, LevelIntermediate: 20, LevelAdvanced: 15},
				High:   LevelPoints{LevelBeginner: 10, LevelIntermediate: 15, LevelAdvanced: 20},
			},
		},
		CategoryKeywords: map[string][]string{
			"personality": {"communication", "leadership", "teamwork", "collaboration", "management"},
			"career":      {"planning", "professional", "industry", "architecture", "strategy"},
			"academic":    {"research", "mathematics", "statistics", "theory", "writing"},
			"aptitude":    {"problem solving", "analysis", "logic", "programming", "algorithms"},
			"interest":    {"design", "creativity", "data", "innovation", "cloud"},
		},
	}
}

// LoadTables reads a registry file; an empty path means DefaultTables.
func LoadTables(path string) (Tables, error) {
	if path == "" {
		return DefaultTables(), nil
	}
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return Tables{}, fmt.Errorf("load scoring tables: %w", err)
	}
	return TablesFromRegistry(reg)
}

// TablesFromRegistry converts a registry file into engine tables.
func TablesFromRegistry(reg *registry.ScoringRegistry) (Tables, error) {
	if err := reg.Validate(); err != nil {
		return Tables{}, err
	}

	t := Tables{
		PathwayBands:     make(map[string]Bands),
		LevelPreferences: make(map[string]LevelMatrix),
		CategoryKeywords: make(map[string][]string),
	}
	for _, c := range reg.Categories {
		name := normalize(c.Name)
		t.Order = append(t.Order, name)
		if c.Pathways != nil {
			t.PathwayBands[name] = Bands{
				Low:    append([]string(nil), c.Pathways.Low...),
				Medium: append([]string(nil), c.Pathways.Medium...),
				High:   append([]string(nil), c.Pathways.High...),
			}
		}
		if c.LevelPreferences != nil {
			t.LevelPreferences[name] = LevelMatrix{
				Low:    toLevelPoints(c.LevelPreferences.Low),
				Medium: toLevelPoints(c.LevelPreferences.Medium),
				High:   toLevelPoints(c.LevelPreferences.High),
			}
		}
		if len(c.Keywords) > 0 {
			kws := make([]string, 0, len(c.Keywords))
			for _, kw := range c.Keywords {
				kws = append(kws, normalize(kw))
			}
			t.CategoryKeywords[name] = kws
		}
	}

	if err := t.Validate(); err != nil {
		return Tables{}, fmt.Errorf("registry %s: %w", reg.Version, err)
	}
	return t, nil
}

// ToRegistry renders the tables in registry file form.
func (t Tables) ToRegistry(version string) *registry.ScoringRegistry {
	reg := &registry.ScoringRegistry{Version: version}
	for _, name := range t.Order {
		c := registry.Category{Name: name}
		if b, ok := t.PathwayBands[name]; ok {
			c.Pathways = &registry.PathwayBands{Low: b.Low, Medium: b.Medium, High: b.High}
		}
		if m, ok := t.LevelPreferences[name]; ok {
			c.LevelPreferences = &registry.LevelPreferences{
				Low:    fromLevelPoints(m.Low),
				Medium: fromLevelPoints(m.Medium),
				High:   fromLevelPoints(m.High),
			}
		}
		c.Keywords = t.CategoryKeywords[name]
		reg.Categories = append(reg.Categories, c)
	}
	return reg
}

func toLevelPoints(in map[string]float64) LevelPoints {
	out := make(LevelPoints, len(in))
	for k, v := range in {
		out[ParseLevel(k)] = v
	}
	return out
}

func fromLevelPoints(in LevelPoints) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

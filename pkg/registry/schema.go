// pkg/registry/schema.go
package registry

// ScoringRegistry is the on-disk form of the recommendation lookup tables.
// Categories are kept as an ordered list so that pathway derivation is
// deterministic regardless of how the file is edited.
type ScoringRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Categories  []Category `json:"categories"`
}

type Category struct {
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	Pathways         *PathwayBands     `json:"pathways,omitempty"`
	LevelPreferences *LevelPreferences `json:"levelPreferences,omitempty"`
	Keywords         []string          `json:"keywords,omitempty"`
}

// PathwayBands lists the career pathways suggested for each score band.
type PathwayBands struct {
	Low    []string `json:"low"`
	Medium []string `json:"medium"`
	High   []string `json:"high"`
}

// LevelPreferences maps each average-score band to level -> points.
type LevelPreferences struct {
	Low    map[string]float64 `json:"low"`
	Medium map[string]float64 `json:"medium"`
	High   map[string]float64 `json:"high"`
}

// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var (
	ErrEmptyRegistry     = errors.New("registry has no categories")
	ErrDuplicateCategory = errors.New("duplicate category")
	ErrUnnamedCategory   = errors.New("category name is required")
)

func LoadRegistry(path string) (*ScoringRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*ScoringRegistry, error) {
	var reg ScoringRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse scoring registry: %w", err)
	}
	return &reg, nil
}

// Validate checks structural rules only; numeric sanity is the engine's job.
func (r *ScoringRegistry) Validate() error {
	if len(r.Categories) == 0 {
		return ErrEmptyRegistry
	}
	seen := make(map[string]struct{}, len(r.Categories))
	for i, c := range r.Categories {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			return fmt.Errorf("%w at index %d", ErrUnnamedCategory, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, c.Name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func SaveRegistry(path string, reg *ScoringRegistry) error {
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-recommendation-workers/internal/recommendation"
	"course-recommendation-workers/pkg/registry"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const request = `{
  "scores": [{"category": "career", "score": 85}, {"category": "aptitude", "score": 78}],
  "courses": [
    {"id": "c1", "title": "Intro to Data Science", "level": "beginner", "careerPathways": ["Data Science"], "skillsDeveloped": ["python", "statistics"]},
    {"id": "c2", "title": "Network Basics", "level": "beginner", "careerPathways": ["Network Administration"], "skillsDeveloped": ["networking"]},
    {"id": "c3", "title": "Systems Design", "level": "advanced", "careerPathways": ["Software Architecture"], "skillsDeveloped": ["architecture"]}
  ]
}`

// ==========================
// run
// ==========================

func TestRun(t *testing.T) {
	t.Run("stdin with limit", func(t *testing.T) {
		out, err := execute(t, request, "run", "--limit", "2")
		require.NoError(t, err)

		var resp recommendation.Response
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, recommendation.StrategyScoreBand, resp.Strategy)
		assert.Len(t, resp.Recommendations, 2)
		assert.Equal(t, 3, resp.CandidateCount)
		assert.Contains(t, resp.CareerPathways, "Data Science")
		for _, rec := range resp.Recommendations {
			assert.NotEmpty(t, rec.Explanations)
		}
	})

	t.Run("input file and strategy override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "request.json")
		require.NoError(t, os.WriteFile(path, []byte(request), 0o644))

		out, err := execute(t, "", "run", "--input", path, "--strategy", "weighted", "--pretty=false")
		require.NoError(t, err)

		var resp recommendation.Response
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, recommendation.StrategyWeighted, resp.Strategy)
		assert.Equal(t, 1, strings.Count(strings.TrimSpace(out), "\n")+1)
	})

	t.Run("malformed request", func(t *testing.T) {
		_, err := execute(t, "{not json", "run")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse request")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "", "run", "--input", filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
	})
}

// ==========================
// tables
// ==========================

func TestTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.json")

	out, err := execute(t, "", "tables", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	_, err = execute(t, "", "tables", "init", "--path", path)
	assert.Error(t, err)

	out, err = execute(t, "", "tables", "validate", "--path", path)
	require.NoError(t, err)
	assert.Equal(t, "tables valid: 5 categories\n", out)

	out, err = execute(t, "", "tables", "dump")
	require.NoError(t, err)
	reg, err := registry.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "builtin", reg.Version)
	assert.Len(t, reg.Categories, 5)
	assert.Equal(t, "personality", reg.Categories[0].Name)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version":"x","categories":[]}`), 0o644))
	_, err = execute(t, "", "tables", "validate", "--path", bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrEmptyRegistry)
}

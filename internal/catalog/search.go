package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"

	"course-recommendation-workers/internal/models"
	"course-recommendation-workers/internal/recommendation"
)

// SearchIndex finds courses in the Elasticsearch course index.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndex(client *elasticsearch.Client, index string) *SearchIndex {
	return &SearchIndex{client: client, index: index}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.CourseRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// CoursesByPathways returns active courses tagged with any of the pathways.
// Pathways compare case-insensitively.
func (s *SearchIndex) CoursesByPathways(ctx context.Context, pathways []string, limit int) ([]recommendation.Course, error) {
	query := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"is_active": true}},
					map[string]interface{}{"terms": map[string]interface{}{"career_pathways": models.PathwayTerms(pathways)}},
				},
			},
		},
		"sort": []interface{}{map[string]interface{}{"id": "asc"}},
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(query); err != nil {
		return nil, fmt.Errorf("encode course query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&body),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("search %s: index not found", s.index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", s.index, res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]recommendation.Course, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.ToCourse())
	}
	return out, nil
}

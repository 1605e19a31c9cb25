package queries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"course-recommendation-workers/internal/models"
)

var (
	ErrIndexNotFound  = errors.New("index not found")
	ErrCourseNotFound = errors.New("course not found")
)

// CourseHit is a course document with its relevance score.
type CourseHit struct {
	models.CourseRecord
	Score float64 `json:"score"`
}

type QueryResult struct {
	Data      []CourseHit
	TotalHits int64
	MaxScore  float64
	Took      int64
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			Score  *float64            `json:"_score"`
			Source models.CourseRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Execute runs eq against the index. related_courses first resolves the
// source course's pathways when the caller did not pass them.
func Execute(ctx context.Context, esClient *elasticsearch.Client, eq ElasticsearchQuery) (*QueryResult, error) {
	eq.Normalize()
	start := time.Now()

	if eq.QueryType == models.QueryTypeRelatedCourses {
		if eq.CourseID == "" {
			return nil, ErrMissingCourseID
		}
		if len(eq.CareerPathways) == 0 {
			pathways, err := coursePathways(ctx, esClient, eq.Index, eq.CourseID)
			if err != nil {
				return nil, err
			}
			eq.CareerPathways = pathways
		}
	}

	req, err := BuildQuery(eq)
	if err != nil {
		return nil, err
	}

	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, eq.Index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &QueryResult{
		Data:      make([]CourseHit, 0, len(r.Hits.Hits)),
		TotalHits: r.Hits.Total.Value,
	}
	if r.Hits.MaxScore != nil {
		result.MaxScore = *r.Hits.MaxScore
	}
	for _, hit := range r.Hits.Hits {
		h := CourseHit{CourseRecord: hit.Source}
		if hit.Score != nil {
			h.Score = *hit.Score
		}
		result.Data = append(result.Data, h)
	}
	result.Took = time.Since(start).Milliseconds()
	return result, nil
}

func coursePathways(ctx context.Context, esClient *elasticsearch.Client, index, courseID string) ([]string, error) {
	req := esapi.GetRequest{
		Index:          index,
		DocumentID:     courseID,
		SourceIncludes: []string{"career_pathways"},
	}
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		var missing struct {
			Found *bool `json:"found"`
		}
		// a missing document still answers 404, but with found=false
		if json.NewDecoder(res.Body).Decode(&missing) == nil && missing.Found != nil {
			return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, courseID)
		}
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("get course %s: %s", courseID, res.String())
	}

	var doc struct {
		Source models.CourseRecord `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode course document: %w", err)
	}
	return doc.Source.CareerPathways, nil
}

package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"course-recommendation-workers/internal/models"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
	ErrMissingCourseID  = errors.New("courseId is required")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ElasticsearchQuery defines the structure of a query request
type ElasticsearchQuery struct {
	Index          string
	QueryType      models.QueryType
	Keywords       string
	Level          string
	CareerPathways []string
	CourseID       string
	SortBy         string
	Pagination     struct {
		From int
		Size int
	}
}

// Normalize clamps pagination into [1, MaxPageSize] with a non-negative offset.
func (eq *ElasticsearchQuery) Normalize() {
	if eq.Pagination.Size < 1 {
		eq.Pagination.Size = DefaultPageSize
	}
	if eq.Pagination.Size > MaxPageSize {
		eq.Pagination.Size = MaxPageSize
	}
	if eq.Pagination.From < 0 {
		eq.Pagination.From = 0
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(eq ElasticsearchQuery) (*esapi.SearchRequest, error) {
	if eq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch eq.QueryType {
	case models.QueryTypeCourseIndex:
		queryBody = buildCourseSearchQuery(eq)
	case models.QueryTypeRelatedCourses:
		queryBody = buildRelatedCoursesQuery(eq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, eq.QueryType)
	}

	body, err := json.Marshal(queryBody)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	return &esapi.SearchRequest{
		Index: []string{eq.Index},
		Body:  bytes.NewReader(body),
		From:  &eq.Pagination.From,
		Size:  &eq.Pagination.Size,
	}, nil
}

// buildCourseSearchQuery builds the keyword course search over active courses.
func buildCourseSearchQuery(eq ElasticsearchQuery) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"is_active": true}},
	}

	if keywords := strings.TrimSpace(eq.Keywords); keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"title^3", "description^2", "skills_developed"},
				"type":   "best_fields",
			},
		})
	}

	if level := strings.ToLower(strings.TrimSpace(eq.Level)); level != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"level": level},
		})
	}

	if len(eq.CareerPathways) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"career_pathways": models.PathwayTerms(eq.CareerPathways)},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   mustClauses,
				"filter": filterClauses,
			},
		},
	}

	switch eq.SortBy {
	case "title":
		query["sort"] = []map[string]interface{}{{"title.keyword": "asc"}}
	case "level":
		query["sort"] = []map[string]interface{}{{"level": "asc"}, {"id": "asc"}}
	}

	return query
}

// buildRelatedCoursesQuery finds active courses sharing a pathway with the
// source course. CareerPathways must already hold the source course's pathways.
func buildRelatedCoursesQuery(eq ElasticsearchQuery) map[string]interface{} {
	if eq.CourseID == "" || len(eq.CareerPathways) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"is_active": true}},
					map[string]interface{}{"terms": map[string]interface{}{"career_pathways": models.PathwayTerms(eq.CareerPathways)}},
				},
				"must_not": []interface{}{
					map[string]interface{}{"ids": map[string]interface{}{"values": []string{eq.CourseID}}},
				},
			},
		},
	}
}

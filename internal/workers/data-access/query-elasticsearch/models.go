// internal/workers/data-access/query-elasticsearch/models.go
package queryelasticsearch

import "course-recommendation-workers/internal/workers/data-access/query-elasticsearch/queries"

type Input struct {
	IndexName  string     `json:"indexName,omitempty"`
	QueryType  string     `json:"queryType"`
	Filters    Filters    `json:"filters"`
	CourseID   string     `json:"courseId,omitempty"`
	Pagination Pagination `json:"pagination"`
}

type Filters struct {
	Keywords       string   `json:"keywords,omitempty"`
	Level          string   `json:"level,omitempty"`
	CareerPathways []string `json:"careerPathways,omitempty"`
	SortBy         string   `json:"sortBy,omitempty"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Data      []queries.CourseHit `json:"data"`
	TotalHits int64               `json:"totalHits"`
	MaxScore  float64             `json:"maxScore"`
	Took      int64               `json:"took"` // milliseconds
}

const inputSchema = `{
  "type": "object",
  "required": ["queryType"],
  "properties": {
    "indexName": {"type": "string"},
    "queryType": {"type": "string", "minLength": 1},
    "courseId": {"type": "string"},
    "filters": {
      "type": ["object", "null"],
      "properties": {
        "keywords": {"type": "string"},
        "level": {"type": "string"},
        "careerPathways": {"type": ["array", "null"], "items": {"type": "string"}},
        "sortBy": {"type": "string", "enum": ["", "relevance", "title", "level"]}
      }
    },
    "pagination": {
      "type": ["object", "null"],
      "properties": {
        "from": {"type": "integer"},
        "size": {"type": "integer"}
      }
    }
  }
}`

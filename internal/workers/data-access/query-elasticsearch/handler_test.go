package queryelasticsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "course-recommendation-workers/internal/common/errors"
	"course-recommendation-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

const searchHits = `{
  "took": 3,
  "hits": {
    "total": {"value": 2, "relation": "eq"},
    "max_score": 4.2,
    "hits": [
      {"_id": "DS201", "_score": 4.2, "_source": {"id": "DS201", "title": "Applied ML", "level": "intermediate",
        "career_pathways": ["Data Science"], "skills_developed": ["python"], "is_active": true}},
      {"_id": "DS301", "_score": 1.5, "_source": {"id": "DS301", "title": "Deep Learning", "level": "advanced",
        "career_pathways": ["Data Science", "Machine Learning"], "is_active": true}}
    ]
  }
}`

// fakeCluster is a minimal course index: documents by id and a canned search response.
type fakeCluster struct {
	mu         sync.Mutex
	docs       map[string]string
	searchCode int
	searchBody string
	lastSearch map[string]interface{}
	lastQuery  string
	delay      time.Duration
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 3 && parts[1] == "_doc":
		doc, ok := f.docs[parts[2]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"_index":"courses","_id":"` + parts[2] + `","found":false}`))
			return
		}
		_, _ = w.Write([]byte(`{"_index":"courses","_id":"` + parts[2] + `","found":true,"_source":` + doc + `}`))
	case len(parts) == 2 && parts[1] == "_search":
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.lastSearch = nil
		_ = json.Unmarshal(body, &f.lastSearch)
		f.lastQuery = r.URL.RawQuery
		f.mu.Unlock()
		code := f.searchCode
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		_, _ = w.Write([]byte(f.searchBody))
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"unexpected request"}`))
	}
}

func newTestHandler(t *testing.T, cluster *fakeCluster) *Handler {
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	return NewHandler(&Config{DefaultIndex: "courses", Timeout: 5 * time.Second}, client, logger.NewTestLogger(t))
}

func boolClause(t *testing.T, body map[string]interface{}, key string) []interface{} {
	t.Helper()
	q := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	clauses, _ := q[key].([]interface{})
	return clauses
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_CourseIndex(t *testing.T) {
	cluster := &fakeCluster{searchBody: searchHits}
	handler := newTestHandler(t, cluster)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "course_index",
		Filters: Filters{
			Keywords:       "machine learning",
			Level:          "Intermediate",
			CareerPathways: []string{"Data Science"},
		},
		Pagination: Pagination{From: 10, Size: 500},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), output.TotalHits)
	assert.Equal(t, 4.2, output.MaxScore)
	require.Len(t, output.Data, 2)
	assert.Equal(t, "DS201", output.Data[0].ID)
	assert.Equal(t, 4.2, output.Data[0].Score)
	assert.Equal(t, []string{"Data Science", "Machine Learning"}, output.Data[1].CareerPathways)

	assert.Contains(t, cluster.lastQuery, "size=100")
	assert.Contains(t, cluster.lastQuery, "from=10")

	must := boolClause(t, cluster.lastSearch, "must")
	require.Len(t, must, 1)
	mm := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "machine learning", mm["query"])
	assert.Equal(t, []interface{}{"title^3", "description^2", "skills_developed"}, mm["fields"])

	filters := boolClause(t, cluster.lastSearch, "filter")
	require.Len(t, filters, 3)
	assert.Equal(t, map[string]interface{}{"term": map[string]interface{}{"is_active": true}}, filters[0])
	assert.Equal(t, map[string]interface{}{"term": map[string]interface{}{"level": "intermediate"}}, filters[1])
	assert.Equal(t, map[string]interface{}{"terms": map[string]interface{}{"career_pathways": []interface{}{"data science"}}}, filters[2])
}

func TestHandler_Execute_CourseIndexDefaults(t *testing.T) {
	cluster := &fakeCluster{searchBody: `{"hits":{"total":{"value":0},"max_score":null,"hits":[]}}`}
	handler := newTestHandler(t, cluster)

	output, err := handler.Execute(context.Background(), &Input{QueryType: "course_index"})
	require.NoError(t, err)
	assert.Empty(t, output.Data)
	assert.Equal(t, 0.0, output.MaxScore)

	assert.Contains(t, cluster.lastQuery, "size=20")
	must := boolClause(t, cluster.lastSearch, "must")
	assert.Contains(t, must[0], "match_all")
}

func TestHandler_Execute_RelatedCourses(t *testing.T) {
	cluster := &fakeCluster{
		docs:       map[string]string{"DS201": `{"career_pathways":["Data Science","AI"]}`},
		searchBody: searchHits,
	}
	handler := newTestHandler(t, cluster)

	_, err := handler.Execute(context.Background(), &Input{QueryType: "related_courses", CourseID: "DS201"})
	require.NoError(t, err)

	filters := boolClause(t, cluster.lastSearch, "filter")
	require.Len(t, filters, 2)
	assert.Equal(t,
		map[string]interface{}{"terms": map[string]interface{}{"career_pathways": []interface{}{"data science", "ai"}}},
		filters[1])

	mustNot := boolClause(t, cluster.lastSearch, "must_not")
	require.Len(t, mustNot, 1)
	assert.Equal(t,
		map[string]interface{}{"ids": map[string]interface{}{"values": []interface{}{"DS201"}}},
		mustNot[0])
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		cluster   *fakeCluster
		input     *Input
		code      apperrors.ErrorCode
		retryable bool
	}{
		{
			name:    "unknown query type",
			cluster: &fakeCluster{},
			input:   &Input{QueryType: "related_learners"},
			code:    apperrors.ErrCodeInvalidQueryType,
		},
		{
			name: "index missing",
			cluster: &fakeCluster{
				searchCode: http.StatusNotFound,
				searchBody: `{"error":{"type":"index_not_found_exception"},"status":404}`,
			},
			input: &Input{QueryType: "course_index", IndexName: "gone"},
			code:  apperrors.ErrCodeIndexNotFound,
		},
		{
			name:    "related without course",
			cluster: &fakeCluster{},
			input:   &Input{QueryType: "related_courses"},
			code:    "BUSINESS_RULE_VIOLATION",
		},
		{
			name:    "related course unknown",
			cluster: &fakeCluster{docs: map[string]string{}},
			input:   &Input{QueryType: "related_courses", CourseID: "NOPE"},
			code:    "RESOURCE_NOT_FOUND",
		},
		{
			name:      "bad query",
			cluster:   &fakeCluster{searchCode: http.StatusBadRequest, searchBody: `{"error":{"type":"parsing_exception"},"status":400}`},
			input:     &Input{QueryType: "course_index"},
			code:      apperrors.ErrCodeSearchQueryFailed,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t, tt.cluster)
			output, err := handler.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, output)

			stdErr := apperrors.Normalize(err)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestHandler_Execute_Timeout(t *testing.T) {
	handler := newTestHandler(t, &fakeCluster{searchBody: searchHits, delay: 200 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := handler.Execute(ctx, &Input{QueryType: "course_index"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSearchTimeout, apperrors.Normalize(err).Code)
}

func TestParseInput(t *testing.T) {
	input, err := parseInput(`{"queryType":"course_index","filters":{"keywords":"sql"},"pagination":{"from":0,"size":5}}`)
	require.NoError(t, err)
	assert.Equal(t, "sql", input.Filters.Keywords)
	assert.Equal(t, 5, input.Pagination.Size)

	_, err = parseInput(`{"filters":{}}`)
	assert.Error(t, err)

	_, err = parseInput(`{"queryType":"course_index","filters":{"sortBy":"price"}}`)
	assert.Error(t, err)
}

// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"course-recommendation-workers/internal/catalog"
	"course-recommendation-workers/internal/common/config"
	"course-recommendation-workers/internal/common/database"
	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/models"
	"course-recommendation-workers/internal/recommendation"

	queryelasticsearch "course-recommendation-workers/internal/workers/data-access/query-elasticsearch"
	querypostgresql "course-recommendation-workers/internal/workers/data-access/query-postgresql"

	calculaterecommendations "course-recommendation-workers/internal/workers/recommendation/calculate-course-recommendations"
	derivecareerpathways "course-recommendation-workers/internal/workers/recommendation/derive-career-pathways"
	notifyrecommendations "course-recommendation-workers/internal/workers/recommendation/notify-recommendations"
	rankrecommendations "course-recommendation-workers/internal/workers/recommendation/rank-course-recommendations"
	recordresult "course-recommendation-workers/internal/workers/recommendation/record-recommendation-result"
)

const (
	testUserID       = "e2e-user-001"
	testAssessmentID = "e2e-assessment-001"
	testIndex        = "courses-e2e"
)

type services struct {
	cfg *config.Config
	pg  *database.PostgresClient
	rdb *database.RedisClient
	es  *elasticsearch.Client // nil when no cluster answers
	log logger.Logger
}

// connect skips the test unless Postgres and Redis answer. Set E2E=1 to run.
func connect(t *testing.T) *services {
	t.Helper()
	if os.Getenv("E2E") == "" {
		t.Skip("set E2E=1 with Postgres, Redis and optionally Elasticsearch running")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	if err := pg.Ping(ctx); err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(func() { pg.Close() })

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	if err := rdb.Ping(ctx); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	zapLog, _ := zap.NewDevelopment()
	s := &services{cfg: cfg, pg: pg, rdb: rdb, log: logger.NewZapAdapter(zapLog)}

	if cfg.Database.Elasticsearch.GetURL() != "" {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err == nil && es.Ping(ctx) == nil {
			s.es = es.Client
		} else {
			t.Log("elasticsearch unavailable, search steps will be skipped")
		}
	}
	return s
}

func seedCatalog(t *testing.T, s *services) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.pg.EnsureSchema(ctx))

	stmts := []string{
		`INSERT INTO courses (id, title, code, level, career_pathways, skills_developed, is_active)
		 VALUES ('e2e-ds-101', 'Data Science Foundations', 'DS101', 'beginner', '{"Data Science"}', '{"python","statistics"}', true)
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO courses (id, title, code, level, career_pathways, skills_developed, is_active)
		 VALUES ('e2e-arch-301', 'Software Architecture in Practice', 'SA301', 'advanced', '{"Software Architecture"}', '{"architecture","design"}', true)
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO courses (id, title, code, level, career_pathways, skills_developed, is_active)
		 VALUES ('e2e-sec-201', 'Applied Cybersecurity', 'CS201', 'intermediate', '{"Cybersecurity"}', '{"security","networking"}', true)
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO courses (id, title, code, level, career_pathways, skills_developed, is_active)
		 VALUES ('e2e-retired', 'Retired Course', 'OLD100', 'beginner', '{"Data Science"}', '{}', false)
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO users (id, email, phone) VALUES ('e2e-user-001', 'learner@example.com', '+15550100')
		 ON CONFLICT (id) DO NOTHING`,
	}
	for _, q := range stmts {
		_, err := s.pg.DB.ExecContext(ctx, q)
		require.NoError(t, err)
	}
}

// ==========================
// Recommendation pipeline
// ==========================

func TestRecommendationPipeline(t *testing.T) {
	s := connect(t)
	seedCatalog(t, s)
	ctx := context.Background()

	engine := recommendation.NewDefaultEngine()
	scores := []recommendation.AssessmentScore{
		{Category: "career", Score: 88},
		{Category: "aptitude", Score: 81},
		{Category: "interest", Score: 62},
	}

	// 1. derive
	derive := derivecareerpathways.NewHandler(derivecareerpathways.LoadConfig(), engine, s.log)
	derived, err := derive.Execute(ctx, &derivecareerpathways.Input{
		UserID: testUserID, AssessmentID: testAssessmentID, Scores: scores,
	})
	require.NoError(t, err)
	assert.False(t, derived.UsedFallback)
	assert.Contains(t, derived.CareerPathways, "Data Science")

	// 2. calculate against the seeded catalog
	repo := catalog.NewPostgresRepository(s.pg.DB)
	calc := calculaterecommendations.NewHandler(calculaterecommendations.LoadConfig(), engine,
		calculaterecommendations.Dependencies{
			Courses: catalog.NewCachedCourseSource(repo, s.rdb.Client, time.Minute, s.log),
			History: catalog.NewHistoryLoader(repo),
		}, s.log)
	calculated, err := calc.Execute(ctx, &calculaterecommendations.Input{
		UserID: testUserID, AssessmentID: testAssessmentID, Scores: scores, Limit: 10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, calculated.Recommendations)
	assert.NotContains(t, calculated.RecommendedCourseIDs, "e2e-retired")
	assert.Equal(t, derived.CareerPathways, calculated.CareerPathways)

	// 3. record, twice: the second call updates in place
	record := recordresult.NewHandler(recordresult.LoadConfig(), repo, s.rdb.Client, s.log)
	in := &recordresult.Input{
		UserID:               testUserID,
		AssessmentID:         testAssessmentID,
		RecommendedCourseIDs: calculated.RecommendedCourseIDs,
		CareerPathways:       calculated.CareerPathways,
		Scores:               scores,
	}
	first, err := record.Execute(ctx, in)
	require.NoError(t, err)
	second, err := record.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ResultID, second.ResultID)
	assert.False(t, second.Created)

	// 4. the recorded result is visible through the data-access worker
	query := querypostgresql.NewHandler(querypostgresql.LoadConfig(), repo, s.log)
	history, err := query.Execute(ctx, &querypostgresql.Input{
		QueryType: "assessment_history", UserID: testUserID,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, history.RowCount, 1)

	// 5. notification with every channel off
	notify := notifyrecommendations.NewHandler(notifyrecommendations.LoadConfig(), repo, nil, nil, s.log)
	recs := make([]notifyrecommendations.RecommendedCourse, 0, len(calculated.Recommendations))
	for _, r := range calculated.Recommendations {
		recs = append(recs, notifyrecommendations.RecommendedCourse{
			CourseID: r.CourseID, Title: r.Title, RelevanceScore: r.RelevanceScore,
		})
	}
	sent, err := notify.Execute(ctx, &notifyrecommendations.Input{
		UserID: testUserID, AssessmentID: testAssessmentID,
		Recommendations: recs, CareerPathways: calculated.CareerPathways,
	})
	require.NoError(t, err)
	assert.Equal(t, "disabled", sent.Status)
}

func TestRankWorker(t *testing.T) {
	s := connect(t)
	engine := recommendation.NewDefaultEngine()

	courses := []recommendation.Course{
		{ID: "a", Title: "A", Level: recommendation.LevelBeginner, CareerPathways: []string{"Data Science"}, IsActive: true},
		{ID: "b", Title: "B", Level: recommendation.LevelAdvanced, CareerPathways: []string{"Cybersecurity"}, IsActive: true},
	}
	scored := engine.Score(recommendation.Request{
		Scores:  []recommendation.AssessmentScore{{Category: "career", Score: 90}},
		Courses: courses,
	})

	rank := rankrecommendations.NewHandler(rankrecommendations.LoadConfig(), s.log)
	out, err := rank.Execute(context.Background(), &rankrecommendations.Input{ScoredCourses: scored, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, out.RankedCourses, 1)
	assert.Equal(t, 2, out.TotalCount)
}

// ==========================
// Search
// ==========================

func TestCourseSearch(t *testing.T) {
	s := connect(t)
	if s.es == nil {
		t.Skip("elasticsearch not configured")
	}
	ctx := context.Background()

	esClient := &database.ElasticsearchClient{Client: s.es}
	_, err := esClient.EnsureIndex(ctx, testIndex, database.CourseIndexMapping)
	require.NoError(t, err)

	docs := []recommendation.Course{
		{ID: "e2e-ds-101", Title: "Data Science Foundations", Level: recommendation.LevelBeginner,
			CareerPathways: []string{"Data Science"}, SkillsDeveloped: []string{"python"}, IsActive: true},
		{ID: "e2e-ml-201", Title: "Machine Learning with Python", Level: recommendation.LevelIntermediate,
			CareerPathways: []string{"Data Science", "Machine Learning"}, SkillsDeveloped: []string{"python", "ml"}, IsActive: true},
		{ID: "e2e-sec-201", Title: "Applied Cybersecurity", Level: recommendation.LevelIntermediate,
			CareerPathways: []string{"Cybersecurity"}, SkillsDeveloped: []string{"security"}, IsActive: true},
	}
	for _, c := range docs {
		body, err := json.Marshal(models.FromCourse(c))
		require.NoError(t, err)

		res, err := esapi.IndexRequest{
			Index:      testIndex,
			DocumentID: c.ID,
			Body:       bytes.NewReader(body),
			Refresh:    "true",
		}.Do(ctx, s.es)
		require.NoError(t, err)
		require.False(t, res.IsError(), fmt.Sprintf("index %s: %s", c.ID, res.Status()))
		res.Body.Close()
	}

	handler := queryelasticsearch.NewHandler(queryelasticsearch.LoadConfig(), s.es, s.log)

	out, err := handler.Execute(ctx, &queryelasticsearch.Input{
		IndexName: testIndex,
		QueryType: "course_index",
		Filters:   queryelasticsearch.Filters{Keywords: "python"},
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, out.TotalHits, int64(2))

	related, err := handler.Execute(ctx, &queryelasticsearch.Input{
		IndexName: testIndex,
		QueryType: "related_courses",
		CourseID:  "e2e-ds-101",
	})
	require.NoError(t, err)
	for _, hit := range related.Data {
		assert.NotEqual(t, "e2e-ds-101", hit.ID)
	}

	_, err = handler.Execute(ctx, &queryelasticsearch.Input{
		IndexName: "nonexistent-e2e",
		QueryType: "course_index",
	})
	assert.Error(t, err)
}

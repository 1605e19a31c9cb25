package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"course-recommendation-workers/internal/common/database"
	"course-recommendation-workers/internal/models"
	"course-recommendation-workers/internal/recommendation"
)

const courseColumns = `id, title, code, description, level, duration,
	career_pathways, requirements, skills_developed, is_active`

// PostgresRepository reads and writes the recommendation tables.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ActiveCourses(ctx context.Context) ([]recommendation.Course, error) {
	records, err := r.queryCourses(ctx, `SELECT `+courseColumns+`
		FROM courses WHERE is_active = TRUE ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return models.ToCourses(records), nil
}

// CourseRecords returns the named courses, active or not, in id order.
func (r *PostgresRepository) CourseRecords(ctx context.Context, ids []string) ([]models.CourseRecord, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+`
		FROM courses WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
}

func (r *PostgresRepository) ActiveCourseRecords(ctx context.Context) ([]models.CourseRecord, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+`
		FROM courses WHERE is_active = TRUE ORDER BY id`)
}

func (r *PostgresRepository) LearnerProfile(ctx context.Context, userID string) (*models.LearnerProfileRecord, error) {
	var p models.LearnerProfileRecord
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, skills, experience_level
		FROM learner_profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, pq.Array(&p.Skills), &p.ExperienceLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query learner profile: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) EnrolledCourses(ctx context.Context, userID string) ([]recommendation.Course, error) {
	records, err := r.EnrolledCourseRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.ToCourses(records), nil
}

func (r *PostgresRepository) EnrolledCourseRecords(ctx context.Context, userID string) ([]models.CourseRecord, error) {
	return r.queryCourses(ctx, `SELECT c.id, c.title, c.code, c.description, c.level, c.duration,
			c.career_pathways, c.requirements, c.skills_developed, c.is_active
		FROM enrollments e JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY c.id`, userID)
}

func (r *PostgresRepository) AssessmentHistory(ctx context.Context, userID string) ([]models.AssessmentResultRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, assessment_id, career_pathways, recommended_course_ids,
		       scores, created_at, updated_at
		FROM assessment_results
		WHERE user_id = $1
		ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query assessment history: %w", err)
	}
	defer rows.Close()

	var out []models.AssessmentResultRecord
	for rows.Next() {
		var rec models.AssessmentResultRecord
		var scores []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.AssessmentID,
			pq.Array(&rec.CareerPathways), pq.Array(&rec.RecommendedCourseIDs),
			&scores, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan assessment result: %w", err)
		}
		if len(scores) > 0 {
			if err := json.Unmarshal(scores, &rec.Scores); err != nil {
				return nil, fmt.Errorf("decode assessment scores: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UserContact(ctx context.Context, userID string) (*models.UserContact, error) {
	var c models.UserContact
	var email, phone sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT id, email, phone FROM users WHERE id = $1`, userID).
		Scan(&c.UserID, &email, &phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user contact: %w", err)
	}
	c.Email, c.Phone = email.String, phone.String
	return &c, nil
}

// RecordResult upserts the learner's result for one assessment and writes an
// audit entry in the same transaction. created reports whether the row is new.
func (r *PostgresRepository) RecordResult(ctx context.Context, rec models.AssessmentResultRecord) (id string, created bool, err error) {
	var scores []byte
	if len(rec.Scores) > 0 {
		if scores, err = json.Marshal(rec.Scores); err != nil {
			return "", false, fmt.Errorf("encode scores: %w", err)
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	err = database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		// xmax is zero only for a freshly inserted tuple
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO assessment_results
				(id, user_id, assessment_id, career_pathways, recommended_course_ids, scores, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			ON CONFLICT (user_id, assessment_id) DO UPDATE SET
				career_pathways        = EXCLUDED.career_pathways,
				recommended_course_ids = EXCLUDED.recommended_course_ids,
				scores                 = EXCLUDED.scores,
				updated_at             = EXCLUDED.updated_at
			RETURNING id, (xmax = 0)`,
			rec.ID, rec.UserID, rec.AssessmentID,
			pq.Array(rec.CareerPathways), pq.Array(rec.RecommendedCourseIDs),
			nullableJSON(scores), now,
		).Scan(&id, &created); err != nil {
			return fmt.Errorf("upsert assessment result: %w", err)
		}

		action := "updated"
		if created {
			action = "created"
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO audit_log (id, entity_type, entity_id, action, actor_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), "assessment_result", id, action, rec.UserID, now,
		); err != nil {
			return fmt.Errorf("insert audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return id, created, nil
}

func (r *PostgresRepository) queryCourses(ctx context.Context, query string, args ...interface{}) ([]models.CourseRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var out []models.CourseRecord
	for rows.Next() {
		var c models.CourseRecord
		if err := rows.Scan(&c.ID, &c.Title, &c.Code, &c.Description, &c.Level, &c.Duration,
			pq.Array(&c.CareerPathways), pq.Array(&c.Requirements), pq.Array(&c.SkillsDeveloped),
			&c.IsActive); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

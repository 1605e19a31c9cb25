// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "course-recommendation-workers/internal/models"

type Input struct {
	QueryType string   `json:"queryType"`
	UserID    string   `json:"userId,omitempty"`
	CourseIDs []string `json:"courseIds,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeActiveCourses     = models.QueryTypeActiveCourses
	QueryTypeCourseDetails     = models.QueryTypeCourseDetails
	QueryTypeLearnerProfile    = models.QueryTypeLearnerProfile
	QueryTypeEnrolledCourses   = models.QueryTypeEnrolledCourses
	QueryTypeAssessmentHistory = models.QueryTypeAssessmentHistory
)

const inputSchema = `{
  "type": "object",
  "required": ["queryType"],
  "properties": {
    "queryType": {"type": "string", "minLength": 1},
    "userId": {"type": "string"},
    "courseIds": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

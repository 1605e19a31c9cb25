package models

type QueryType string

// Postgres query types served by query-postgresql.
const (
	QueryTypeActiveCourses     QueryType = "active_courses"
	QueryTypeCourseDetails     QueryType = "course_details"
	QueryTypeLearnerProfile    QueryType = "learner_profile"
	QueryTypeEnrolledCourses   QueryType = "enrolled_courses"
	QueryTypeAssessmentHistory QueryType = "assessment_history"
)

// Elasticsearch query types served by query-elasticsearch.
const (
	QueryTypeCourseIndex    QueryType = "course_index"
	QueryTypeRelatedCourses QueryType = "related_courses"
)

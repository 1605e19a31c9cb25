package notifyrecommendations

type Input struct {
	UserID          string              `json:"userId"`
	AssessmentID    string              `json:"assessmentId"`
	Recommendations []RecommendedCourse `json:"recommendations"`
	CareerPathways  []string            `json:"careerPathways"`
	Priority        string              `json:"priority,omitempty"`
}

type RecommendedCourse struct {
	CourseID       string `json:"courseId,omitempty"`
	Title          string `json:"title"`
	RelevanceScore int    `json:"relevanceScore"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"` // "sent", "failed", "disabled"
	Channels       []string `json:"channels"`
	SentAt         string   `json:"sentAt"` // ISO 8601
}

// Priorities, lowest first.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

const inputSchema = `{
  "type": "object",
  "required": ["userId", "recommendations"],
  "properties": {
    "userId": {"type": "string", "minLength": 1},
    "assessmentId": {"type": "string"},
    "recommendations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "courseId": {"type": "string"},
          "title": {"type": "string"},
          "relevanceScore": {"type": "integer"}
        }
      }
    },
    "careerPathways": {"type": ["array", "null"], "items": {"type": "string"}},
    "priority": {"type": "string", "enum": ["", "low", "normal", "high", "urgent"]}
  }
}`

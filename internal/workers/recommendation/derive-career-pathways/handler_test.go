package derivecareerpathways

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "course-recommendation-workers/internal/common/errors"
	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/recommendation"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, recommendation.NewDefaultEngine(), logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name         string
		scores       []recommendation.AssessmentScore
		wantPathways []string
		wantFallback bool
	}{
		{
			name:         "high career score",
			scores:       []recommendation.AssessmentScore{{Category: "career", Score: 85}},
			wantPathways: []string{"Software Architecture", "Data Science"},
		},
		{
			name:         "category matched case-insensitively",
			scores:       []recommendation.AssessmentScore{{Category: "CAREER", Score: 85}},
			wantPathways: []string{"Software Architecture", "Data Science"},
		},
		{
			name:         "unknown categories fall back",
			scores:       []recommendation.AssessmentScore{{Category: "astrology", Score: 99}},
			wantFallback: true,
		},
		{
			name:         "no scores fall back",
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := createTestHandler(t).Execute(context.Background(), &Input{UserID: "u1", Scores: tt.scores})
			require.NoError(t, err)
			assert.Equal(t, tt.wantFallback, out.UsedFallback)
			assert.Equal(t, len(out.CareerPathways), out.PathwayCount)
			assert.LessOrEqual(t, out.PathwayCount, 5)
			assert.NotEmpty(t, out.CareerPathways)
			if tt.wantPathways != nil {
				assert.Equal(t, tt.wantPathways, out.CareerPathways)
			}
		})
	}
}

func TestHandler_Execute_NilInput(t *testing.T) {
	_, err := createTestHandler(t).Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHandler_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := createTestHandler(t).Execute(ctx, &Input{UserID: "u1"})
	assert.ErrorIs(t, err, context.Canceled)
}

// ==========================
// Input Validation Tests
// ==========================

func TestParseInput(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantErr   bool
	}{
		{"valid", `{"userId":"u1","assessmentId":"a1","scores":[{"category":"career","score":72.5}]}`, false},
		{"missing userId", `{"scores":[]}`, true},
		{"score not a number", `{"userId":"u1","scores":[{"category":"career","score":"high"}]}`, true},
		{"not json", `userId=u1`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := parseInput(tt.variables)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "u1", input.UserID)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidAssessmentInput, apperrors.Normalize(err).Code)
		})
	}
}

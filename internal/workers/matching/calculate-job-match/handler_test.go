package calculatejobmatch

import (
	"context"
	"testing"
	"time"

	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/directory"
	"careerguide-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Learner(ctx context.Context, id string) (*models.LearnerProfile, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*models.LearnerProfile); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectory) Job(ctx context.Context, id string) (*models.Job, error) {
	args := m.Called(ctx, id)
	if j, ok := args.Get(0).(*models.Job); ok {
		return j, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestHandler(t *testing.T, dir Directory) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second, RecommendThreshold: 50}, dir, logger.NewTestLogger(t))
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func graduate() *models.LearnerProfile {
	return &models.LearnerProfile{
		ID:                "learner-1",
		Course:            strPtr("BSc Computer Science"),
		Skills:            []string{"golang", "PostgreSQL", "Docker"},
		ExperienceYears:   intPtr(2),
		PreferredLocation: strPtr("Maseru"),
	}
}

func backendJob() *models.Job {
	return &models.Job{
		ID:    "job-1",
		Title: "Backend Engineer",
		Requirements: models.JobRequirement{
			Degree:     strPtr("computer science"),
			Skills:     []string{"Go", "SQL", "Kubernetes"},
			Experience: "2+ years",
			Location:   strPtr(" maseru "),
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_FullMatch(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("Learner", mock.Anything, "learner-1").Return(graduate(), nil)
	dir.On("Job", mock.Anything, "job-1").Return(backendJob(), nil)

	out, err := newTestHandler(t, dir).Execute(context.Background(), &Input{LearnerID: "learner-1", JobID: "job-1"})
	require.NoError(t, err)

	// golang~Go and PostgreSQL~SQL match; Docker does not.
	assert.Equal(t, 40.0, out.Breakdown.CourseRelevance)
	assert.Equal(t, 2, out.Breakdown.MatchedSkills)
	assert.InDelta(t, 20.0, out.Breakdown.SkillsMatch, 1e-9)
	assert.Equal(t, 20.0, out.Breakdown.ExperienceMatch)
	assert.Equal(t, 2, out.Breakdown.MinimumYears)
	assert.InDelta(t, 90.0, out.Score, 1e-9)
	assert.True(t, out.Recommended)
	assert.Equal(t, "job-1", out.JobID)
	dir.AssertExpectations(t)
}

func TestHandler_Execute_LocationComparison(t *testing.T) {
	out, err := newTestHandler(t, new(MockDirectory)).Execute(context.Background(), &Input{
		Learner: graduate(),
		Job:     backendJob(),
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, out.Breakdown.LocationMatch)

	job := backendJob()
	job.Requirements.Location = strPtr("Maseru West")
	out, err = newTestHandler(t, new(MockDirectory)).Execute(context.Background(), &Input{
		Learner: graduate(),
		Job:     job,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Breakdown.LocationMatch)
}

func TestHandler_Execute_NoExperienceRecorded(t *testing.T) {
	learner := graduate()
	learner.ExperienceYears = nil
	job := backendJob()
	job.Requirements.Experience = "no experience needed"

	out, err := newTestHandler(t, new(MockDirectory)).Execute(context.Background(), &Input{Learner: learner, Job: job})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Breakdown.MinimumYears)
	assert.Equal(t, 0.0, out.Breakdown.ExperienceMatch)
}

func TestHandler_Execute_ThresholdIsStrict(t *testing.T) {
	learner := &models.LearnerProfile{ID: "l", Course: strPtr("Diploma in Accounting"), ExperienceYears: intPtr(0)}
	job := &models.Job{ID: "j", Requirements: models.JobRequirement{Degree: strPtr("accounting")}}

	out, err := newTestHandler(t, new(MockDirectory)).Execute(context.Background(), &Input{Learner: learner, Job: job})
	require.NoError(t, err)
	assert.Equal(t, 60.0, out.Score)
	assert.True(t, out.Recommended)

	h := newTestHandler(t, new(MockDirectory))
	h.config.RecommendThreshold = 60
	out, err = h.Execute(context.Background(), &Input{Learner: learner, Job: job})
	require.NoError(t, err)
	assert.False(t, out.Recommended)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_JobNotFound(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("Job", mock.Anything, "job-x").Return(nil, directory.ErrNotFound)

	_, err := newTestHandler(t, dir).Execute(context.Background(), &Input{Learner: graduate(), JobID: "job-x"})
	se, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeJobNotFound, se.Code)
	assert.False(t, se.Retryable)
}

func TestHandler_Execute_MissingReferences(t *testing.T) {
	h := newTestHandler(t, new(MockDirectory))

	_, err := h.Execute(context.Background(), &Input{JobID: "job-1"})
	se, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidInput, se.Code)

	_, err = h.Execute(context.Background(), &Input{Learner: graduate()})
	se, ok = errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidInput, se.Code)
}

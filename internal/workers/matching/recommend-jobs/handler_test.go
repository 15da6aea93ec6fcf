package recommendjobs

import (
	"context"
	"testing"
	"time"

	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/models"
	"careerguide-workers/internal/search"

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

func (m *MockDirectory) OpenJobs(ctx context.Context, limit int) ([]models.Job, error) {
	args := m.Called(ctx, limit)
	if j, ok := args.Get(0).([]models.Job); ok {
		return j, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) OpenJobs(ctx context.Context, query string, size int) ([]models.Job, error) {
	args := m.Called(ctx, query, size)
	if j, ok := args.Get(0).([]models.Job); ok {
		return j, args.Error(1)
	}
	return nil, args.Error(1)
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, Threshold: 50, MaxRecommendations: 10, CandidatePool: 100}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func learner() *models.LearnerProfile {
	return &models.LearnerProfile{
		ID:                "learner-1",
		Course:            strPtr("BSc Information Systems"),
		Skills:            []string{"Java", "SQL"},
		ExperienceYears:   intPtr(1),
		PreferredLocation: strPtr("Maseru"),
	}
}

// candidateJobs score 100, 70, 50, 40 and 85 in that order.
func candidateJobs() []models.Job {
	return []models.Job{
		{ID: "perfect", Title: "Systems Analyst", Requirements: models.JobRequirement{
			Degree: strPtr("Information Systems"), Skills: []string{"JavaScript", "SQL"}, Experience: "1 year", Location: strPtr("maseru"),
		}},
		{ID: "seventy", Title: "Junior Developer", Requirements: models.JobRequirement{
			Degree: strPtr("information systems"), Skills: []string{"Python"}, Experience: "entry level", Location: strPtr("Maseru"),
		}},
		{ID: "fifty", Title: "Support", Requirements: models.JobRequirement{
			Degree: strPtr("information systems"), Location: strPtr("Maseru"),
			Experience: "5 years",
		}},
		{ID: "forty", Title: "Analyst", Requirements: models.JobRequirement{
			Degree: strPtr("Information Systems"), Experience: "3 years",
		}},
		{ID: "eightyfive", Title: "Data Engineer", Requirements: models.JobRequirement{
			Degree: strPtr("systems"), Skills: []string{"SQL", "Spark"}, Experience: "0-1 years", Location: strPtr("MASERU"),
		}},
	}
}

func newTestHandler(t *testing.T, dir Directory, catalog Catalog) *Handler {
	return NewHandler(createTestConfig(), dir, catalog, logger.NewTestLogger(t))
}

func jobIDs(out *Output) []string {
	ids := make([]string, 0, len(out.Recommendations))
	for _, r := range out.Recommendations {
		ids = append(ids, r.JobID)
	}
	return ids
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_InlineJobs(t *testing.T) {
	out, err := newTestHandler(t, new(MockDirectory), nil).Execute(context.Background(), &Input{
		Learner: learner(),
		Jobs:    candidateJobs(),
	})
	require.NoError(t, err)

	assert.Equal(t, SourceInput, out.Source)
	assert.Equal(t, 5, out.Evaluated)
	assert.Equal(t, []string{"perfect", "eightyfive", "seventy"}, jobIDs(out))
	assert.Equal(t, 100.0, out.Recommendations[0].Score)
	assert.Equal(t, 85.0, out.Recommendations[1].Score)
	assert.Equal(t, 70.0, out.Recommendations[2].Score)
}

func TestHandler_Execute_Limit(t *testing.T) {
	out, err := newTestHandler(t, new(MockDirectory), nil).Execute(context.Background(), &Input{
		Learner: learner(),
		Jobs:    candidateJobs(),
		Limit:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"perfect", "eightyfive"}, jobIDs(out))
}

func TestHandler_Execute_FromSearch(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("Learner", mock.Anything, "learner-1").Return(learner(), nil)
	catalog := new(MockCatalog)
	catalog.On("OpenJobs", mock.Anything, "analyst", 100).Return(candidateJobs(), nil)

	out, err := newTestHandler(t, dir, catalog).Execute(context.Background(), &Input{LearnerID: "learner-1", Query: "analyst"})
	require.NoError(t, err)

	assert.Equal(t, SourceSearch, out.Source)
	assert.Len(t, out.Recommendations, 3)
	dir.AssertExpectations(t)
	catalog.AssertExpectations(t)
	dir.AssertNotCalled(t, "OpenJobs", mock.Anything, mock.Anything)
}

func TestHandler_Execute_FromDirectory(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("OpenJobs", mock.Anything, 100).Return(candidateJobs()[2:4], nil)

	out, err := newTestHandler(t, dir, nil).Execute(context.Background(), &Input{Learner: learner()})
	require.NoError(t, err)

	assert.Equal(t, SourceDirectory, out.Source)
	assert.Equal(t, 2, out.Evaluated)
	assert.Empty(t, out.Recommendations)
	assert.NotNil(t, out.Recommendations)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("search without cluster", func(t *testing.T) {
		_, err := newTestHandler(t, new(MockDirectory), nil).Execute(context.Background(), &Input{Learner: learner(), Source: SourceSearch})
		se, ok := errors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeInvalidInput, se.Code)
	})

	t.Run("unknown source", func(t *testing.T) {
		_, err := newTestHandler(t, new(MockDirectory), nil).Execute(context.Background(), &Input{Learner: learner(), Source: "kafka"})
		se, ok := errors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeInvalidInput, se.Code)
	})

	t.Run("search index missing", func(t *testing.T) {
		catalog := new(MockCatalog)
		catalog.On("OpenJobs", mock.Anything, "", 100).Return(nil, search.ErrIndexNotFound)

		_, err := newTestHandler(t, new(MockDirectory), catalog).Execute(context.Background(), &Input{Learner: learner()})
		se, ok := errors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeIndexNotFound, se.Code)
	})

	t.Run("learner lookup fails", func(t *testing.T) {
		dir := new(MockDirectory)
		dir.On("Learner", mock.Anything, "learner-1").Return(nil, assert.AnError)

		_, err := newTestHandler(t, dir, nil).Execute(context.Background(), &Input{LearnerID: "learner-1", Jobs: candidateJobs()})
		se, ok := errors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeQueryExecutionFailed, se.Code)
	})
}

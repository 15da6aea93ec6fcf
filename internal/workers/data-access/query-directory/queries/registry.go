package queries

import (
	"context"
	"errors"
	"fmt"

	"careerguide-workers/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// Directory is the subset of the directory store the named queries read.
type Directory interface {
	Learner(ctx context.Context, id string) (*models.LearnerProfile, error)
	Program(ctx context.Context, id string) (*models.Program, error)
	Programs(ctx context.Context, institutionID string) ([]models.Program, error)
	StudentApplications(ctx context.Context, studentID string) ([]models.ApplicationRecord, error)
	InstitutionApplications(ctx context.Context, institutionID string) ([]models.ApplicationRecord, error)
	OpenJobs(ctx context.Context, limit int) ([]models.Job, error)
	Invalidate(ctx context.Context, entity, id string) error
}

// QueryFunc returns the result data and its row count.
type QueryFunc func(ctx context.Context, dir Directory, params map[string]interface{}) (interface{}, int, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeLearnerProfile:          LearnerProfile,
	models.QueryTypeProgramDetails:          ProgramDetails,
	models.QueryTypeInstitutionPrograms:     InstitutionPrograms,
	models.QueryTypeStudentApplications:     StudentApplications,
	models.QueryTypeInstitutionApplications: InstitutionApplications,
	models.QueryTypeOpenJobs:                OpenJobs,
}

func Execute(ctx context.Context, dir Directory, queryType models.QueryType, params map[string]interface{}) (interface{}, int, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, dir, params)
}

func stringParam(params map[string]interface{}, key string) (string, error) {
	v, ok := params[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	return v, nil
}

func boolParam(params map[string]interface{}, key string) bool {
	v, _ := params[key].(bool)
	return v
}

// intParam accepts the float64 produced by JSON decoding as well as Go ints.
func intParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return def
}

package queries

import (
	"context"
	"fmt"

	"careerguide-workers/internal/directory"
)

// refresh drops the cached entry when the caller sets "refresh", so a profile
// edited upstream is read from the database instead of waiting out the TTL.
func refresh(ctx context.Context, dir Directory, params map[string]interface{}, entity, id string) error {
	if !boolParam(params, "refresh") {
		return nil
	}
	if err := dir.Invalidate(ctx, entity, id); err != nil {
		return fmt.Errorf("invalidate cached %s %s: %w", entity, id, err)
	}
	return nil
}

func LearnerProfile(ctx context.Context, dir Directory, params map[string]interface{}) (interface{}, int, error) {
	id, err := stringParam(params, "learnerId")
	if err != nil {
		return nil, 0, err
	}
	if err := refresh(ctx, dir, params, directory.EntityLearner, id); err != nil {
		return nil, 0, err
	}
	learner, err := dir.Learner(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return learner, 1, nil
}

func ProgramDetails(ctx context.Context, dir Directory, params map[string]interface{}) (interface{}, int, error) {
	id, err := stringParam(params, "programId")
	if err != nil {
		return nil, 0, err
	}
	if err := refresh(ctx, dir, params, directory.EntityProgram, id); err != nil {
		return nil, 0, err
	}
	program, err := dir.Program(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return program, 1, nil
}

// InstitutionPrograms lists one institution's programs, or every program when
// institutionId is omitted.
func InstitutionPrograms(ctx context.Context, dir Directory, params map[string]interface{}) (interface{}, int, error) {
	institutionID, _ := params["institutionId"].(string)
	programs, err := dir.Programs(ctx, institutionID)
	if err != nil {
		return nil, 0, err
	}
	return programs, len(programs), nil
}

func OpenJobs(ctx context.Context, dir Directory, params map[string]interface{}) (interface{}, int, error) {
	jobs, err := dir.OpenJobs(ctx, intParam(params, "limit", 0))
	if err != nil {
		return nil, 0, err
	}
	return jobs, len(jobs), nil
}

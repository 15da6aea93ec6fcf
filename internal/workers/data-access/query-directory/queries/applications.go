package queries

import (
	"context"
)

func StudentApplications(ctx context.Context, dir Directory, params map[string]interface{}) (interface{}, int, error) {
	id, err := stringParam(params, "studentId")
	if err != nil {
		return nil, 0, err
	}
	apps, err := dir.StudentApplications(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return apps, len(apps), nil
}

func InstitutionApplications(ctx context.Context, dir Directory, params map[string]interface{}) (interface{}, int, error) {
	id, err := stringParam(params, "institutionId")
	if err != nil {
		return nil, 0, err
	}
	apps, err := dir.InstitutionApplications(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return apps, len(apps), nil
}

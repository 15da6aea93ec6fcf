package camunda

import (
	"context"
	"encoding/json"

	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Responder sends the final command for a job and records the outcome.
type Responder struct {
	taskType string
	logger   logger.Logger
	errs     *errors.ErrorHandler
}

func NewResponder(taskType string, log logger.Logger) *Responder {
	return &Responder{
		taskType: taskType,
		logger:   log,
		errs:     errors.NewErrorHandler(log),
	}
}

// ParseVariables decodes the job's variables into dst.
func ParseVariables(job entities.Job, dst interface{}) error {
	if err := json.Unmarshal([]byte(job.Variables), dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, "job variables are not valid JSON for this task", err)
	}
	return nil
}

func (r *Responder) Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.Fail(ctx, client, job, errors.Wrap(errors.ErrCodeInternalError, "encode job output", err))
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		r.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.RecordCompleted(r.taskType)
	r.logger.Info("job completed successfully", map[string]interface{}{"jobKey": job.Key})
}

func (r *Responder) Fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.RecordFailed(r.taskType, string(errors.Normalize(err).Code))
	r.errs.HandleJobError(ctx, client, job, err)
}

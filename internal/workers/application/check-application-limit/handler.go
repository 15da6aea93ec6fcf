package checkapplicationlimit

import (
	"context"

	"careerguide-workers/internal/common/camunda"
	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/common/metrics"
	"careerguide-workers/internal/directory"
	"careerguide-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "check-application-limit"

type Directory interface {
	StudentApplications(ctx context.Context, studentID string) ([]models.ApplicationRecord, error)
}

type Handler struct {
	config    *Config
	directory Directory
	logger    logger.Logger
	responder *camunda.Responder
}

func NewHandler(config *Config, dir Directory, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		directory: dir,
		logger:    l,
		responder: camunda.NewResponder(TaskType, l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.ParseVariables(job, &input); err != nil {
		h.responder.Fail(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.responder.Fail(ctx, client, job, err)
		return
	}

	h.responder.Complete(ctx, client, job, output)
}

// execute is advisory: the decision is re-taken under a lock when the
// application is actually created.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.StudentID == "" || input.InstitutionID == "" || input.CourseID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "studentId, institutionId and courseId are required", "")
	}

	existing := input.Applications
	if existing == nil {
		apps, err := h.directory.StudentApplications(ctx, input.StudentID)
		if err != nil {
			return nil, directory.Classify(err, errors.ErrCodeApplicationNotFound)
		}
		existing = apps
	}

	decision := h.config.Policy.CanApply(existing, input.InstitutionID, input.CourseID)
	metrics.ApplicationDecisions.WithLabelValues(string(decision.Reason)).Inc()

	h.logger.Info("application limit checked", map[string]interface{}{
		"studentId":     input.StudentID,
		"institutionId": input.InstitutionID,
		"courseId":      input.CourseID,
		"reason":        decision.Reason,
		"counted":       decision.Counted,
	})

	return &Output{
		StudentID:     input.StudentID,
		InstitutionID: input.InstitutionID,
		CourseID:      input.CourseID,
		Allowed:       decision.Allowed,
		Reason:        string(decision.Reason),
		Counted:       decision.Counted,
		Cap:           h.config.Policy.InstitutionCap,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

package createapplicationrecord

import (
	"context"

	"careerguide-workers/internal/common/aws"
	"careerguide-workers/internal/common/camunda"
	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/common/metrics"
	"careerguide-workers/internal/directory"
	"careerguide-workers/internal/eligibility"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "create-application-record"

type Directory interface {
	CreateApplication(ctx context.Context, policy eligibility.Policy, req directory.NewApplication) (*directory.CreateResult, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType, subject string, data interface{}) (string, error)
}

type Handler struct {
	config    *Config
	directory Directory
	events    EventPublisher
	logger    logger.Logger
	responder *camunda.Responder
}

func NewHandler(config *Config, dir Directory, events EventPublisher, log logger.Logger) *Handler {
	if events == nil {
		events = aws.NoopPublisher{}
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		directory: dir,
		events:    events,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.StudentID == "" || input.InstitutionID == "" || input.CourseID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "studentId, institutionId and courseId are required", "")
	}

	res, err := h.directory.CreateApplication(ctx, h.config.Policy, directory.NewApplication{
		StudentID:     input.StudentID,
		InstitutionID: input.InstitutionID,
		CourseID:      input.CourseID,
	})
	if err != nil {
		return nil, directory.Classify(err, errors.ErrCodeProgramNotFound)
	}
	metrics.ApplicationDecisions.WithLabelValues(string(res.Decision.Reason)).Inc()

	out := &Output{
		Created: res.Record != nil,
		Reason:  string(res.Decision.Reason),
		Counted: res.Decision.Counted,
	}
	if res.Record == nil {
		h.logger.Info("application refused", map[string]interface{}{
			"studentId":     input.StudentID,
			"institutionId": input.InstitutionID,
			"courseId":      input.CourseID,
			"reason":        res.Decision.Reason,
		})
		return out, nil
	}

	out.ApplicationID = res.Record.ID
	out.ApplicationStatus = string(res.Record.Status)
	out.CreatedAt = res.Record.CreatedAt

	h.logger.Info("application created", map[string]interface{}{
		"applicationId": res.Record.ID,
		"studentId":     res.Record.StudentID,
		"institutionId": res.Record.InstitutionID,
	})

	// Non-critical: the record is committed whether or not the event goes out.
	if h.config.PublishEvents {
		if _, err := h.events.PublishEvent(ctx, aws.EventApplicationCreated, res.Record.ID, res.Record); err != nil {
			h.logger.Warn("failed to publish application event", map[string]interface{}{
				"applicationId": res.Record.ID,
				"error":         err.Error(),
			})
		}
	}

	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

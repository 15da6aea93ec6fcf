package updateapplicationstatus

import (
	"context"

	"careerguide-workers/internal/common/aws"
	"careerguide-workers/internal/common/camunda"
	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/common/metrics"
	"careerguide-workers/internal/directory"
	"careerguide-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "update-application-status"

type Directory interface {
	UpdateStatus(ctx context.Context, applicationID string, actor directory.Actor, to models.ApplicationStatus) (*directory.StatusChange, error)
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
	if input.ApplicationID == "" || input.ActorID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "applicationId and actorId are required", "")
	}
	role, err := models.ParseRole(input.ActorRole)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, "invalid actorRole", err)
	}
	to, err := models.ParseApplicationStatus(input.Status)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, "invalid status", err)
	}

	change, err := h.directory.UpdateStatus(ctx, input.ApplicationID, directory.Actor{ID: input.ActorID, Role: role}, to)
	if err != nil {
		se := directory.Classify(err, errors.ErrCodeApplicationNotFound)
		h.logger.Warn("status change refused", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"actorRole":     role,
			"status":        to,
			"code":          se.Code,
		})
		return nil, se
	}

	app := change.Application
	metrics.StatusTransitions.WithLabelValues(string(change.Previous), string(app.Status)).Inc()
	h.logger.Info("application status changed", map[string]interface{}{
		"applicationId": app.ID,
		"from":          change.Previous,
		"to":            app.Status,
	})

	if h.config.PublishEvents {
		payload := map[string]interface{}{
			"application":    app,
			"previousStatus": change.Previous,
			"actorRole":      role,
		}
		if _, err := h.events.PublishEvent(ctx, aws.EventApplicationStatusChanged, app.ID, payload); err != nil {
			h.logger.Warn("failed to publish status event", map[string]interface{}{
				"applicationId": app.ID,
				"error":         err.Error(),
			})
		}
	}

	return &Output{
		ApplicationID:  app.ID,
		PreviousStatus: string(change.Previous),
		Status:         string(app.Status),
		StudentID:      app.StudentID,
		InstitutionID:  app.InstitutionID,
		CourseID:       app.CourseID,
		UpdatedAt:      app.UpdatedAt,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

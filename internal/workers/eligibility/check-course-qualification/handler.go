package checkcoursequalification

import (
	"context"
	"strconv"

	"careerguide-workers/internal/common/camunda"
	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/common/metrics"
	"careerguide-workers/internal/directory"
	"careerguide-workers/internal/eligibility"
	"careerguide-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "check-course-qualification"

// Directory is the part of the directory store this worker reads.
type Directory interface {
	Learner(ctx context.Context, id string) (*models.LearnerProfile, error)
	Program(ctx context.Context, id string) (*models.Program, error)
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	learner, err := h.loadLearner(ctx, input)
	if err != nil {
		return nil, err
	}
	program, err := h.loadProgram(ctx, input)
	if err != nil {
		return nil, err
	}

	req := program.Requirements
	if req.MinimumAverageGrade == nil {
		m := h.config.DefaultMinimumGrade
		req.MinimumAverageGrade = &m
	}

	res := eligibility.CheckQualification(req, *learner)
	metrics.QualificationChecks.WithLabelValues(string(res.Variant), strconv.FormatBool(res.Qualified)).Inc()

	h.logger.Info("qualification checked", map[string]interface{}{
		"learnerId": learner.ID,
		"programId": program.ID,
		"qualified": res.Qualified,
		"variant":   res.Variant,
	})

	missing := res.MissingSubjects
	if missing == nil {
		missing = []string{}
	}
	return &Output{
		LearnerID:       learner.ID,
		ProgramID:       program.ID,
		InstitutionID:   program.InstitutionID,
		Qualified:       res.Qualified,
		Variant:         string(res.Variant),
		Average:         res.Average,
		MinimumAverage:  res.MinimumAverage,
		MissingSubjects: missing,
	}, nil
}

func (h *Handler) loadLearner(ctx context.Context, input *Input) (*models.LearnerProfile, error) {
	if input.Learner != nil {
		return input.Learner, nil
	}
	if input.LearnerID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "learner or learnerId is required", "")
	}
	l, err := h.directory.Learner(ctx, input.LearnerID)
	if err != nil {
		return nil, directory.Classify(err, errors.ErrCodeLearnerNotFound)
	}
	return l, nil
}

func (h *Handler) loadProgram(ctx context.Context, input *Input) (*models.Program, error) {
	if input.Program != nil {
		return input.Program, nil
	}
	if input.ProgramID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "program or programId is required", "")
	}
	p, err := h.directory.Program(ctx, input.ProgramID)
	if err != nil {
		return nil, directory.Classify(err, errors.ErrCodeProgramNotFound)
	}
	return p, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

package listqualifiedcourses

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
	"golang.org/x/sync/errgroup"
)

const TaskType = "list-qualified-courses"

type Directory interface {
	Learner(ctx context.Context, id string) (*models.LearnerProfile, error)
	Programs(ctx context.Context, institutionID string) ([]models.Program, error)
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
	if input.Learner == nil && input.LearnerID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "learner or learnerId is required", "")
	}

	learner := input.Learner
	programs := input.Programs

	g, gctx := errgroup.WithContext(ctx)
	if learner == nil {
		g.Go(func() error {
			l, err := h.directory.Learner(gctx, input.LearnerID)
			if err != nil {
				return directory.Classify(err, errors.ErrCodeLearnerNotFound)
			}
			learner = l
			return nil
		})
	}
	if len(programs) == 0 {
		g.Go(func() error {
			p, err := h.directory.Programs(gctx, input.InstitutionID)
			if err != nil {
				return directory.Classify(err, errors.ErrCodeProgramNotFound)
			}
			programs = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Output{
		LearnerID:         learner.ID,
		QualifiedPrograms: []QualifiedProgram{},
		TotalPrograms:     len(programs),
	}
	for _, p := range programs {
		req := p.Requirements
		if req.MinimumAverageGrade == nil {
			m := h.config.DefaultMinimumGrade
			req.MinimumAverageGrade = &m
		}
		res := eligibility.CheckQualification(req, *learner)
		metrics.QualificationChecks.WithLabelValues(string(res.Variant), strconv.FormatBool(res.Qualified)).Inc()
		if !res.Qualified {
			continue
		}
		out.QualifiedPrograms = append(out.QualifiedPrograms, QualifiedProgram{
			ProgramID:     p.ID,
			InstitutionID: p.InstitutionID,
			Name:          p.Name,
			Faculty:       p.Faculty,
			Variant:       string(res.Variant),
			Average:       res.Average,
		})
	}
	out.QualifiedCount = len(out.QualifiedPrograms)

	h.logger.Info("qualified programs listed", map[string]interface{}{
		"learnerId":     learner.ID,
		"institutionId": input.InstitutionID,
		"total":         out.TotalPrograms,
		"qualified":     out.QualifiedCount,
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

package calculatejobmatch

import (
	"context"

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

const TaskType = "calculate-job-match"

type Directory interface {
	Learner(ctx context.Context, id string) (*models.LearnerProfile, error)
	Job(ctx context.Context, id string) (*models.Job, error)
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
	learner := input.Learner
	if learner == nil {
		if input.LearnerID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "learner or learnerId is required", "")
		}
		l, err := h.directory.Learner(ctx, input.LearnerID)
		if err != nil {
			return nil, directory.Classify(err, errors.ErrCodeLearnerNotFound)
		}
		learner = l
	}

	posting := input.Job
	if posting == nil {
		if input.JobID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "job or jobId is required", "")
		}
		j, err := h.directory.Job(ctx, input.JobID)
		if err != nil {
			return nil, directory.Classify(err, errors.ErrCodeJobNotFound)
		}
		posting = j
	}

	b := eligibility.Breakdown(*learner, posting.Requirements)
	metrics.MatchScores.Observe(b.Score)

	h.logger.Info("job match calculated", map[string]interface{}{
		"learnerId": learner.ID,
		"jobId":     posting.ID,
		"score":     b.Score,
	})

	return &Output{
		LearnerID:   learner.ID,
		JobID:       posting.ID,
		Score:       b.Score,
		Breakdown:   b,
		Recommended: b.Score > h.config.RecommendThreshold,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

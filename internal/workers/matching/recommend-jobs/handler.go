package recommendjobs

import (
	"context"

	"careerguide-workers/internal/common/camunda"
	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/common/metrics"
	"careerguide-workers/internal/directory"
	"careerguide-workers/internal/eligibility"
	"careerguide-workers/internal/models"
	"careerguide-workers/internal/search"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/sync/errgroup"
)

const TaskType = "recommend-jobs"

type Directory interface {
	Learner(ctx context.Context, id string) (*models.LearnerProfile, error)
	OpenJobs(ctx context.Context, limit int) ([]models.Job, error)
}

type Catalog interface {
	OpenJobs(ctx context.Context, query string, size int) ([]models.Job, error)
}

type Handler struct {
	config    *Config
	directory Directory
	catalog   Catalog
	logger    logger.Logger
	responder *camunda.Responder
}

// NewHandler builds the worker. catalog may be nil when no search cluster is
// configured.
func NewHandler(config *Config, dir Directory, catalog Catalog, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		directory: dir,
		catalog:   catalog,
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

func (h *Handler) source(input *Input) string {
	switch {
	case input.Source != "":
		return input.Source
	case len(input.Jobs) > 0:
		return SourceInput
	case h.catalog != nil:
		return SourceSearch
	}
	return SourceDirectory
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Learner == nil && input.LearnerID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "learner or learnerId is required", "")
	}

	src := h.source(input)
	switch {
	case src != SourceInput && src != SourceSearch && src != SourceDirectory:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown job source", src)
	case src == SourceSearch && h.catalog == nil:
		return nil, errors.New(errors.ErrCodeInvalidInput, "search source requested but no search cluster is configured", "")
	}

	learner := input.Learner
	jobs := input.Jobs

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
	switch src {
	case SourceSearch:
		g.Go(func() error {
			j, err := h.catalog.OpenJobs(gctx, input.Query, h.config.CandidatePool)
			if err != nil {
				return search.Classify(err)
			}
			jobs = j
			return nil
		})
	case SourceDirectory:
		g.Go(func() error {
			j, err := h.directory.OpenJobs(gctx, h.config.CandidatePool)
			if err != nil {
				return directory.Classify(err, errors.ErrCodeJobNotFound)
			}
			jobs = j
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := eligibility.RecommendAbove(*learner, jobs, h.config.Threshold)

	limit := h.config.MaxRecommendations
	if input.Limit > 0 && input.Limit < limit {
		limit = input.Limit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := &Output{
		LearnerID:       learner.ID,
		Recommendations: make([]Recommendation, 0, len(ranked)),
		Evaluated:       len(jobs),
		Source:          src,
	}
	for _, r := range ranked {
		metrics.MatchScores.Observe(r.Score)
		out.Recommendations = append(out.Recommendations, Recommendation{
			JobID:     r.Job.ID,
			Title:     r.Job.Title,
			CompanyID: r.Job.CompanyID,
			Score:     r.Score,
			Match:     r.Match,
		})
	}

	h.logger.Info("jobs recommended", map[string]interface{}{
		"learnerId":   learner.ID,
		"source":      src,
		"evaluated":   out.Evaluated,
		"recommended": len(out.Recommendations),
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

package searchcatalog

import (
	"context"

	"careerguide-workers/internal/common/camunda"
	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/search"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "search-catalog"

type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Result, error)
}

type Handler struct {
	config    *Config
	catalog   Searcher
	logger    logger.Logger
	responder *camunda.Responder
}

func NewHandler(config *Config, catalog Searcher, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Index != search.IndexPrograms && input.Index != search.IndexJobs {
		return nil, errors.New(errors.ErrCodeInvalidInput, "index must be programs or jobs", input.Index)
	}
	size := input.Size
	if size <= 0 {
		size = h.config.DefaultSize
	}

	res, err := h.catalog.Search(ctx, search.Request{
		Index:   input.Index,
		Query:   input.Query,
		Filters: input.Filters,
		From:    input.From,
		Size:    size,
	})
	if err != nil {
		return nil, search.Classify(err)
	}

	h.logger.Debug("catalogue searched", map[string]interface{}{
		"index": input.Index,
		"total": res.Total,
		"took":  res.Took,
	})

	return &Output{
		Hits:     res.Hits,
		Total:    res.Total,
		MaxScore: res.MaxScore,
		Took:     res.Took,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

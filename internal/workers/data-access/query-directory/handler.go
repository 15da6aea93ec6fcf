package querydirectory

import (
	"context"
	stderrors "errors"
	"time"

	"careerguide-workers/internal/common/camunda"
	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"
	"careerguide-workers/internal/directory"
	"careerguide-workers/internal/models"
	"careerguide-workers/internal/workers/data-access/query-directory/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "query-directory"

// notFoundCodes picks the error code reported when a single-record lookup
// misses.
var notFoundCodes = map[models.QueryType]errors.ErrorCode{
	models.QueryTypeLearnerProfile: errors.ErrCodeLearnerNotFound,
	models.QueryTypeProgramDetails: errors.ErrCodeProgramNotFound,
}

type Handler struct {
	config    *Config
	directory queries.Directory
	logger    logger.Logger
	responder *camunda.Responder
}

func NewHandler(config *Config, dir queries.Directory, log logger.Logger) *Handler {
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
	if input == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input cannot be nil", "")
	}

	queryType := models.QueryType(input.QueryType)
	if _, exists := queries.Registry[queryType]; !exists {
		return nil, errors.New(errors.ErrCodeInvalidQueryType, "unknown query type", input.QueryType)
	}

	params := input.Parameters
	if params == nil {
		params = map[string]interface{}{}
	}

	start := time.Now()
	data, rowCount, err := queries.Execute(ctx, h.directory, queryType, params)
	if err != nil {
		if stderrors.Is(err, queries.ErrMissingParam) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, "missing query parameter", err)
		}
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(errors.ErrCodeQueryTimeout, "directory query timed out", err)
		}
		return nil, directory.Classify(err, notFoundCode(queryType))
	}

	elapsed := time.Since(start).Milliseconds()
	h.logger.Debug("query executed", map[string]interface{}{
		"queryType": queryType,
		"rowCount":  rowCount,
		"elapsedMs": elapsed,
	})

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: elapsed,
	}, nil
}

func notFoundCode(q models.QueryType) errors.ErrorCode {
	if code, ok := notFoundCodes[q]; ok {
		return code
	}
	return errors.ErrCodeQueryExecutionFailed
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

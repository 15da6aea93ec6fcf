package resolveuserrole

import (
	"context"

	"careerguide-workers/internal/common/auth"
	"careerguide-workers/internal/common/camunda"
	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "resolve-user-role"

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.TokenInfo, error)
}

type Handler struct {
	config    *Config
	tokens    TokenValidator
	logger    logger.Logger
	responder *camunda.Responder
}

func NewHandler(config *Config, tokens TokenValidator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		tokens:    tokens,
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
	info, err := h.tokens.ValidateToken(ctx, input.AccessToken)
	if err != nil {
		if _, ok := errors.AsStandardError(err); ok {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeIdentityUnavailable, "token validation failed", err)
	}

	role, err := auth.ResolveRole(info, h.config.RoleClaim)
	if err != nil {
		h.logger.Warn("role unresolved", map[string]interface{}{
			"userId": info.Sub,
		})
		return nil, err
	}

	h.logger.Debug("role resolved", map[string]interface{}{
		"userId": info.Sub,
		"role":   role,
	})

	return &Output{
		UserID:    info.Sub,
		Username:  info.Username,
		Email:     info.Email,
		Role:      string(role),
		ExpiresAt: info.Exp,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

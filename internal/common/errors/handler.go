package errors

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler reports a failed job back to Zeebe: retryable errors fail the
// job with a reduced retry count, everything else is thrown as a BPMN error.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Action is what the handler does with a failed job.
type Action int

const (
	ActionFail Action = iota
	ActionThrow
)

// Outcome is the resolved reaction to a job error.
type Outcome struct {
	Action  Action
	Retries int32
	Error   *StandardError
	BPMN    *BPMNError
}

// Decide resolves err against the job's remaining retries without talking to
// the broker.
func (h *ErrorHandler) Decide(job entities.Job, err error) Outcome {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	if bpmnErr.Retries > 0 && job.Retries > 1 {
		remaining := job.Retries - 1
		if budget := int32(bpmnErr.Retries); remaining > budget {
			remaining = budget
		}
		return Outcome{Action: ActionFail, Retries: remaining, Error: stdErr, BPMN: bpmnErr}
	}
	return Outcome{Action: ActionThrow, Error: stdErr, BPMN: bpmnErr}
}

// HandleJobError logs the error and sends the fail or throw command.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	out := h.Decide(job, err)
	h.logError(job, out)

	vars, _ := json.Marshal(out.BPMN.ToErrorVariables())
	switch out.Action {
	case ActionFail:
		h.failJob(ctx, client, job, out, string(vars))
	default:
		h.throwBPMNError(ctx, client, job, out, string(vars))
	}
}

// Normalize maps any error onto a StandardError; unknown errors become
// non-retryable INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if se, ok := AsStandardError(err); ok {
		return se
	}
	se := &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Unexpected error",
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
	if err != nil {
		se.Details = err.Error()
	}
	return se
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, out Outcome, vars string) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(out.Retries).
		ErrorMessage(out.BPMN.Message)

	if withVars, err := cmd.VariablesFromString(vars); err == nil {
		if _, err := withVars.Send(ctx); err != nil {
			h.logSendFailure(job, "fail", err)
		}
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logSendFailure(job, "fail", err)
	}
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, out Outcome, vars string) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(out.BPMN.Code).
		ErrorMessage(out.BPMN.Message)

	if withVars, err := cmd.VariablesFromString(vars); err == nil {
		if _, err := withVars.Send(ctx); err != nil {
			h.logSendFailure(job, "throw", err)
		}
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logSendFailure(job, "throw", err)
	}
}

func (h *ErrorHandler) logSendFailure(job entities.Job, command string, err error) {
	h.logger.Error("failed to send job command", map[string]interface{}{
		"jobKey":  job.Key,
		"command": command,
		"error":   err.Error(),
	})
}

func (h *ErrorHandler) logError(job entities.Job, out Outcome) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":             job.Key,
		"jobType":            job.Type,
		"errorCode":          string(out.Error.Code),
		"bpmnErrorCode":      out.BPMN.Code,
		"message":            out.BPMN.Message,
		"details":            out.Error.Details,
		"retryable":          out.Error.Retryable,
		"retriesLeft":        out.Retries,
		"thrown":             out.Action == ActionThrow,
		"errorCategory":      GetErrorCategory(out.Error.Code),
		"processInstanceKey": job.ProcessInstanceKey,
	})
}

// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

type ErrorCode string

const (
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"

	ErrCodeLearnerNotFound     ErrorCode = "LEARNER_NOT_FOUND"
	ErrCodeProgramNotFound     ErrorCode = "PROGRAM_NOT_FOUND"
	ErrCodeJobNotFound         ErrorCode = "JOB_NOT_FOUND"
	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidQueryType         ErrorCode = "INVALID_QUERY_TYPE"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDatabaseUpdateFailed     ErrorCode = "DATABASE_UPDATE_FAILED"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound                 ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeTransitionNotAllowed ErrorCode = "TRANSITION_NOT_ALLOWED"
	ErrCodeRoleNotAllowed       ErrorCode = "ROLE_NOT_ALLOWED"

	ErrCodeTokenInvalid        ErrorCode = "TOKEN_INVALID"
	ErrCodeRoleUnresolved      ErrorCode = "ROLE_UNRESOLVED"
	ErrCodeIdentityUnavailable ErrorCode = "IDENTITY_PROVIDER_UNAVAILABLE"

	ErrCodeWorkflowEngineUnavailable ErrorCode = "WORKFLOW_ENGINE_UNAVAILABLE"
)

// StandardError is the structured error workers hand to the ErrorHandler.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.cause }

// New builds a StandardError whose retryability follows the code's retry budget.
func New(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
	}
}

// Wrap keeps err reachable through errors.Is / errors.As.
func Wrap(code ErrorCode, message string, err error) *StandardError {
	se := New(code, message, "")
	if err != nil {
		se.Details = err.Error()
		se.cause = err
	}
	return se
}

// WithMetadata adds a key to the error variables sent to the engine.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// AsStandardError finds a StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the variables attached to a failed or thrown job.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal codes to the error codes caught by boundary
// events in the process models. Codes absent from the map are thrown as-is.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:                  "INVALID_INPUT",
	ErrCodeLearnerNotFound:               "LEARNER_NOT_FOUND",
	ErrCodeProgramNotFound:               "PROGRAM_NOT_FOUND",
	ErrCodeJobNotFound:                   "JOB_NOT_FOUND",
	ErrCodeApplicationNotFound:           "APPLICATION_NOT_FOUND",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_ERROR",
	ErrCodeQueryExecutionFailed:          "DATABASE_ERROR",
	ErrCodeQueryTimeout:                  "DATABASE_ERROR",
	ErrCodeDatabaseInsertFailed:          "DATABASE_ERROR",
	ErrCodeDatabaseUpdateFailed:          "DATABASE_ERROR",
	ErrCodeInvalidQueryType:              "INVALID_QUERY_TYPE",
	ErrCodeElasticsearchConnectionFailed: "SEARCH_ERROR",
	ErrCodeSearchQueryFailed:             "SEARCH_ERROR",
	ErrCodeSearchTimeout:                 "SEARCH_ERROR",
	ErrCodeIndexNotFound:                 "INDEX_NOT_FOUND",
	ErrCodeTransitionNotAllowed:          "TRANSITION_NOT_ALLOWED",
	ErrCodeRoleNotAllowed:                "ROLE_NOT_ALLOWED",
	ErrCodeTokenInvalid:                  "TOKEN_INVALID",
	ErrCodeRoleUnresolved:                "ROLE_UNRESOLVED",
	ErrCodeIdentityUnavailable:           "IDENTITY_PROVIDER_UNAVAILABLE",
}

// GetRetryCount is the retry budget for a code. Business errors get none.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeDatabaseUpdateFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeIdentityUnavailable,
		ErrCodeWorkflowEngineUnavailable:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, ok := BPMNErrorMapping[stdErr.Code]
	if !ok {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 4. Utility Functions
// ==========================

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for dashboards and log filtering.
func GetErrorCategory(code ErrorCode) string {
	c := string(code)
	switch {
	case strings.Contains(c, "DATABASE") || strings.Contains(c, "QUERY"):
		return "DATABASE"
	case strings.Contains(c, "ELASTICSEARCH") || strings.Contains(c, "SEARCH") || strings.Contains(c, "INDEX"):
		return "SEARCH"
	case strings.Contains(c, "TOKEN") || strings.Contains(c, "ROLE") || strings.Contains(c, "IDENTITY"):
		return "AUTH"
	case strings.Contains(c, "WORKFLOW"):
		return "WORKFLOW"
	case strings.Contains(c, "TRANSITION"):
		return "LIFECYCLE"
	case strings.HasSuffix(c, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(c, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

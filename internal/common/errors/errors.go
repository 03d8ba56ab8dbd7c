// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Profile / request validation errors. Business errors, never retried.
	ErrCodeProfileRequired ErrorCode = "PROFILE_REQUIRED"
	ErrCodeProfileInvalid  ErrorCode = "PROFILE_INVALID"

	// Repository errors. Technical, worth retrying.
	ErrCodeRepositoryConnectionFailed ErrorCode = "REPOSITORY_CONNECTION_FAILED"
	ErrCodeRepositoryQueryFailed      ErrorCode = "REPOSITORY_QUERY_FAILED"
	ErrCodeRepositoryTimeout          ErrorCode = "REPOSITORY_TIMEOUT"

	// Pipeline errors.
	ErrCodeMatchScoringFailed ErrorCode = "MATCH_SCORING_FAILED"
	ErrCodeRankingFailed      ErrorCode = "RANKING_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewProfileRequiredError reports a match request with no patient profile.
func NewProfileRequiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileRequired,
		Message:   "Patient profile is required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileInvalidError reports a profile that failed schema or semantic validation.
func NewProfileInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileInvalid,
		Message:   "Patient profile failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRepositoryConnectionFailedError reports a lost database connection.
func NewRepositoryConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRepositoryConnectionFailed,
		Message:   "Failed to connect to candidate repository",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRepositoryQueryFailedError reports a failed candidate query.
func NewRepositoryQueryFailedError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRepositoryQueryFailed,
		Message:   "Candidate repository query failed",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"stage": stage},
		Timestamp: time.Now().UTC(),
	}
}

// NewRepositoryTimeoutError reports a candidate query exceeding its deadline.
func NewRepositoryTimeoutError(stage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRepositoryTimeout,
		Message:   "Candidate repository query timed out",
		Retryable: true,
		Metadata:  map[string]interface{}{"stage": stage},
		Timestamp: time.Now().UTC(),
	}
}

// NewMatchScoringFailedError reports a scoring pass that could not complete.
func NewMatchScoringFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchScoringFailed,
		Message:   "Match scoring failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRankingFailedError reports a ranking or pagination failure.
func NewRankingFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRankingFailed,
		Message:   "Ranking of match results failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unclassified error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (same as internal).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeProfileRequired:            "PROFILE_REQUIRED",
	ErrCodeProfileInvalid:             "PROFILE_INVALID",
	ErrCodeRepositoryConnectionFailed: "REPOSITORY_CONNECTION_FAILED",
	ErrCodeRepositoryQueryFailed:      "REPOSITORY_QUERY_FAILED",
	ErrCodeRepositoryTimeout:          "REPOSITORY_TIMEOUT",
	ErrCodeMatchScoringFailed:         "MATCH_SCORING_FAILED",
	ErrCodeRankingFailed:              "RANKING_FAILED",
	ErrCodeInternal:                   "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeRepositoryConnectionFailed,
		ErrCodeRepositoryQueryFailed:
		return 3 // Retryable technical errors

	case ErrCodeRepositoryTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROFILE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "REPOSITORY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SCORING") || strings.Contains(codeStr, "RANKING"):
		return "MATCHING"
	default:
		return "OTHER"
	}
}

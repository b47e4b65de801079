// Package errors provides standardized error handling for the dashboard service.
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
	ErrCodeMemberFetchFailed ErrorCode = "MEMBER_FETCH_FAILED"
	ErrCodeMemberNotFound    ErrorCode = "MEMBER_NOT_FOUND"

	ErrCodeLoanSubmitFailed     ErrorCode = "LOAN_SUBMIT_FAILED"
	ErrCodeLoanFetchFailed      ErrorCode = "LOAN_FETCH_FAILED"
	ErrCodePayloadSchemaInvalid ErrorCode = "PAYLOAD_SCHEMA_INVALID"

	ErrCodeWizardSessionNotFound ErrorCode = "WIZARD_SESSION_NOT_FOUND"
	ErrCodeWizardStageOrder      ErrorCode = "WIZARD_STAGE_ORDER"
	ErrCodeSubmitInFlight        ErrorCode = "SUBMIT_IN_FLIGHT"
	ErrCodeGuarantorNotFound     ErrorCode = "GUARANTOR_NOT_FOUND"
	ErrCodeValidationFailed      ErrorCode = "VALIDATION_FAILED"

	ErrCodeExportRenderFailed ErrorCode = "EXPORT_RENDER_FAILED"
	ErrCodeUnknownCategory    ErrorCode = "UNKNOWN_CATEGORY"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
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
// 2. Error Constructors
// ==========================

// NewMemberFetchFailedError creates a retryable upstream member-API error.
func NewMemberFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMemberFetchFailed,
		Message:   "Failed to fetch member records",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMemberNotFoundError creates a non-retryable missing-member error.
func NewMemberNotFoundError(memberID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMemberNotFound,
		Message:   "Member not found",
		Details:   fmt.Sprintf("memberId: %s", memberID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLoanSubmitFailedError creates a retryable loan submission error. The
// upstream error body is carried verbatim as an opaque message.
func NewLoanSubmitFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLoanSubmitFailed,
		Message:   "Loan submission failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLoanFetchFailedError creates a retryable loan-API read error.
func NewLoanFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLoanFetchFailed,
		Message:   "Failed to fetch loan records",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadSchemaInvalidError creates a non-retryable payload schema error.
func NewPayloadSchemaInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadSchemaInvalid,
		Message:   "Assembled loan payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWizardSessionNotFoundError creates a non-retryable session error.
func NewWizardSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWizardSessionNotFound,
		Message:   "Wizard session not found or expired",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWizardStageOrderError creates a non-retryable stage ordering error.
func NewWizardStageOrderError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWizardStageOrder,
		Message:   "Wizard stage posted out of sequence",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmitInFlightError creates a non-retryable concurrent submit error.
func NewSubmitInFlightError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmitInFlight,
		Message:   "A submission is already in progress for this session",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGuarantorNotFoundError creates a non-retryable guarantor resolution error.
func NewGuarantorNotFoundError(memberID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGuarantorNotFound,
		Message:   "Guarantor is not in the member list",
		Details:   fmt.Sprintf("memberId: %s", memberID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable form validation error.
// Field-level errors travel in Metadata under "fieldErrors".
func NewValidationFailedError(details string, fieldErrors interface{}) *StandardError {
	e := &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Form validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
	if fieldErrors != nil {
		e.Metadata = map[string]interface{}{"fieldErrors": fieldErrors}
	}
	return e
}

// NewExportRenderFailedError creates a retryable export rendering error.
func NewExportRenderFailedError(format string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExportRenderFailed,
		Message:   "Report export rendering failed",
		Details:   fmt.Sprintf("format: %s, error: %s", format, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownCategoryError creates a non-retryable catalog category error.
func NewUnknownCategoryError(category string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownCategory,
		Message:   "Unknown field catalog category",
		Details:   fmt.Sprintf("category: %s", category),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error. Cache failures
// never fail a request; callers log and fall through to the upstream.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Member cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count per code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeMemberFetchFailed,
		ErrCodeLoanFetchFailed,
		ErrCodeLoanSubmitFailed,
		ErrCodeCacheUnavailable:
		return 3 // Retryable upstream errors

	case ErrCodeExportRenderFailed:
		return 1

	default:
		return 0 // Business errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "MEMBER"):
		return "MEMBERS"
	case strings.Contains(codeStr, "LOAN") || strings.Contains(codeStr, "PAYLOAD"):
		return "LOANS"
	case strings.Contains(codeStr, "WIZARD") || strings.Contains(codeStr, "SUBMIT") || strings.Contains(codeStr, "GUARANTOR"):
		return "WIZARD"
	case strings.Contains(codeStr, "EXPORT"):
		return "EXPORT"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "CATEGORY"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

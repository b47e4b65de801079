// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorHandler maps application errors onto HTTP responses with standardized
// error handling
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// WriteError normalizes err, logs it and writes the JSON error envelope.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := h.normalizeError(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(r, stdErr, status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": stdErr,
	})
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeMemberNotFound, ErrCodeWizardSessionNotFound, ErrCodeGuarantorNotFound:
		return http.StatusNotFound
	case ErrCodeValidationFailed, ErrCodePayloadSchemaInvalid, ErrCodeUnknownCategory:
		return http.StatusUnprocessableEntity
	case ErrCodeWizardStageOrder:
		return http.StatusConflict
	case ErrCodeSubmitInFlight:
		return http.StatusTooManyRequests
	case ErrCodeMemberFetchFailed, ErrCodeLoanFetchFailed, ErrCodeLoanSubmitFailed:
		return http.StatusBadGateway
	case ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError, status int) {
	h.logger.Error("Request failed", map[string]interface{}{
		"method":        r.Method,
		"path":          r.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"retries":       GetRetryCount(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
}

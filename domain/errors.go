package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrorCode is the closed set of error codes shared with the backend.
type ErrorCode string

const (
	// Authentication errors
	CodeAuthRequired     ErrorCode = "AUTH_REQUIRED"
	CodeInvalidToken     ErrorCode = "INVALID_TOKEN"
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// Resource errors
	CodeNotFound ErrorCode = "NOT_FOUND"
	CodeConflict ErrorCode = "CONFLICT"

	// Validation errors
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeFileTooLarge    ErrorCode = "FILE_TOO_LARGE"
	CodeInvalidFileType ErrorCode = "INVALID_FILE_TYPE"

	// Service errors
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
	CodeOCRExtractionFailed  ErrorCode = "OCR_EXTRACTION_FAILED"
	CodePDFGenerationFailed  ErrorCode = "PDF_GENERATION_FAILED"
	CodeConfigurationError   ErrorCode = "CONFIGURATION_ERROR"

	// Rate limiting
	CodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Generic
	CodeUnknownError ErrorCode = "UNKNOWN_ERROR"
	CodeNetworkError ErrorCode = "NETWORK_ERROR"
)

// Session errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoRefreshToken   = errors.New("no refresh token stored")
)

// APIError is the normalized representation every failure path converges to
// before reaching callers. Transient; constructed per failed call.
type APIError struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    map[string]any
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// IsRetryable reports whether retrying the failed call may succeed.
// Pure function of Code and StatusCode.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 ||
		e.Code == CodeRateLimitExceeded ||
		e.Code == CodeNetworkError
}

// UserMessage returns a short human sentence for the error, suitable for
// direct display. Falls back to the raw message, then a generic sentence.
func (e *APIError) UserMessage() string {
	switch e.Code {
	case CodeAuthRequired:
		return "Please sign in to continue."
	case CodeInvalidToken:
		return "Your session has expired. Please sign in again."
	case CodePermissionDenied:
		return "You don't have permission to perform this action."
	case CodeNotFound:
		return "The requested resource was not found."
	case CodeFileTooLarge:
		max := "10"
		if v, ok := e.Details["max_size_mb"]; ok {
			max = fmt.Sprintf("%v", v)
		}
		return fmt.Sprintf("File is too large. Maximum size is %sMB.", max)
	case CodeInvalidFileType:
		allowed := "images and PDFs"
		if v, ok := e.Details["allowed_types"].([]any); ok && len(v) > 0 {
			allowed = ""
			for i, t := range v {
				if i > 0 {
					allowed += ", "
				}
				allowed += fmt.Sprintf("%v", t)
			}
		}
		return fmt.Sprintf("Invalid file type. Allowed types: %s.", allowed)
	case CodeOCRExtractionFailed:
		return "Unable to extract data from the document. Please try a clearer image or enter data manually."
	case CodePDFGenerationFailed:
		return "Failed to generate PDF. Please try again."
	case CodeRateLimitExceeded:
		return "Too many requests. Please wait a moment and try again."
	case CodeConfigurationError:
		return "Service temporarily unavailable. Please try again later."
	case CodeNetworkError:
		return "Network error. Please check your connection and try again."
	default:
		if e.Message != "" {
			return e.Message
		}
		return "An unexpected error occurred. Please try again."
	}
}

// ResponseError carries a transport response the pipeline captured for a
// non-2xx status, before normalization. Its body may or may not contain the
// structured backend error envelope.
type ResponseError struct {
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("http %d", e.StatusCode)
}

// errorEnvelope is the structured backend error body:
// {success:false, error:{code, message, details?, request_id?, timestamp?}}
type errorEnvelope struct {
	Success bool `json:"success"`
	Error   *struct {
		Code      string         `json:"code"`
		Message   string         `json:"message"`
		Details   map[string]any `json:"details"`
		RequestID string         `json:"request_id"`
		Timestamp string         `json:"timestamp"`
	} `json:"error"`
}

// Normalize maps any failure into an APIError. The input is classified
// explicitly: already normalized, transport response, network failure, or
// unknown. Idempotent; no side effects.
func Normalize(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return normalizeResponse(respErr)
	}

	if isNetworkError(err) {
		return &APIError{
			Code:       CodeNetworkError,
			Message:    "Network error - unable to reach server",
			StatusCode: 0,
			Details:    map[string]any{},
		}
	}

	return &APIError{
		Code:       CodeUnknownError,
		Message:    err.Error(),
		StatusCode: 500,
		Details:    map[string]any{},
	}
}

func normalizeResponse(respErr *ResponseError) *APIError {
	var envelope errorEnvelope
	if err := json.Unmarshal(respErr.Body, &envelope); err == nil && envelope.Error != nil {
		details := envelope.Error.Details
		if details == nil {
			details = map[string]any{}
		}
		return &APIError{
			Code:       ErrorCode(envelope.Error.Code),
			Message:    envelope.Error.Message,
			StatusCode: respErr.StatusCode,
			Details:    details,
			RequestID:  envelope.Error.RequestID,
		}
	}

	return &APIError{
		Code:       codeFromStatus(respErr.StatusCode),
		Message:    defaultMessage(respErr.StatusCode),
		StatusCode: respErr.StatusCode,
		Details:    map[string]any{},
	}
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func codeFromStatus(status int) ErrorCode {
	switch status {
	case 401:
		return CodeAuthRequired
	case 403:
		return CodePermissionDenied
	case 404:
		return CodeNotFound
	case 409:
		return CodeConflict
	case 413:
		return CodeFileTooLarge
	case 422:
		return CodeValidationError
	case 429:
		return CodeRateLimitExceeded
	case 502, 503:
		return CodeExternalServiceError
	default:
		return CodeUnknownError
	}
}

func defaultMessage(status int) string {
	switch status {
	case 400:
		return "Invalid request"
	case 401:
		return "Authentication required"
	case 403:
		return "Permission denied"
	case 404:
		return "Resource not found"
	case 413:
		return "File too large"
	case 422:
		return "Validation failed"
	case 429:
		return "Too many requests"
	case 500:
		return "Server error"
	case 502:
		return "Service unavailable"
	case 503:
		return "Service temporarily unavailable"
	default:
		return "An error occurred"
	}
}

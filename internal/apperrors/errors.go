package apperrors

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeUnsupportedFormat ErrorType = "unsupported_format"
	ErrorTypeExtractionFailed  ErrorType = "extraction_failed"
	ErrorTypeAITimeout         ErrorType = "ai_timeout"
	ErrorTypeMalformedResponse ErrorType = "malformed_ai_response"
	ErrorTypeWorkflowState     ErrorType = "workflow_state"
	ErrorTypeSizeLimit         ErrorType = "size_limit"
	ErrorTypeNotFound          ErrorType = "not_found"
)

// AppError is the single error shape the handlers know how to map to an
// HTTP response. Recoverable extraction errors never leave the pipeline;
// the types still exist so the pipeline can decide how to absorb them.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errType, Message: message, Err: cause}
}

// UnsupportedFormat rejects an upload before extraction starts.
func UnsupportedFormat(detected string) *AppError {
	return New(ErrorTypeUnsupportedFormat, "unsupported document format: "+detected, nil)
}

// ExtractionFailed marks a recoverable extractor failure; the pipeline
// responds by salvaging what it can and running the heuristic fallback.
func ExtractionFailed(format string, cause error) *AppError {
	return New(ErrorTypeExtractionFailed, "extraction failed for "+format, cause)
}

func AITimeout(cause error) *AppError {
	return New(ErrorTypeAITimeout, "model call timed out", cause)
}

func MalformedResponse(cause error) *AppError {
	return New(ErrorTypeMalformedResponse, "model returned unparsable output", cause)
}

func WorkflowState(message string) *AppError {
	return New(ErrorTypeWorkflowState, message, nil)
}

func SizeLimit(size int64, limit int64) *AppError {
	return New(ErrorTypeSizeLimit, fmt.Sprintf("upload of %d bytes exceeds limit of %d", size, limit), nil)
}

func NotFound(message string) *AppError {
	return New(ErrorTypeNotFound, message, nil)
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

func IsUnsupportedFormat(err error) bool { return isType(err, ErrorTypeUnsupportedFormat) }
func IsExtractionFailed(err error) bool  { return isType(err, ErrorTypeExtractionFailed) }
func IsAITimeout(err error) bool         { return isType(err, ErrorTypeAITimeout) }
func IsMalformedResponse(err error) bool { return isType(err, ErrorTypeMalformedResponse) }
func IsWorkflowState(err error) bool     { return isType(err, ErrorTypeWorkflowState) }
func IsSizeLimit(err error) bool         { return isType(err, ErrorTypeSizeLimit) }
func IsNotFound(err error) bool          { return isType(err, ErrorTypeNotFound) }

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeNoTextFound      ErrorType = "no_text_found"
	ErrorTypeExtractionFailed ErrorType = "extraction_failed"
	ErrorTypeGenerationFailed ErrorType = "generation_failed"
	ErrorTypeInternal         ErrorType = "internal"
)

// NoTextMessage is shown when a PDF has no selectable text
const NoTextMessage = "Could not extract text from the uploaded file. Please ensure it contains selectable text."

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Details:    detail,
		StatusCode: http.StatusBadRequest,
	}
}

// NewNoTextFoundError reports a document whose pages carry no text
func NewNoTextFoundError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNoTextFound,
		Message:    "no extractable text",
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewExtractionError wraps any failure raised by the PDF parser
func NewExtractionError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExtractionFailed,
		Message:    "text extraction failed",
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewGenerationError wraps failures from tokenizing, generating or decoding
func NewGenerationError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeGenerationFailed,
		Message:    "generation failed",
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetType returns the error category, internal for unknown errors
func GetType(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// DisplayMessage maps an error to the text shown in the output field
func DisplayMessage(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return "Error during processing: " + err.Error()
	}
	switch appErr.Type {
	case ErrorTypeValidation:
		if appErr.Details != "" {
			return appErr.Message + ": " + appErr.Details
		}
		return appErr.Message
	case ErrorTypeNoTextFound:
		return NoTextMessage
	case ErrorTypeExtractionFailed:
		return "Error extracting text: " + causeText(appErr)
	default:
		return "Error during processing: " + causeText(appErr)
	}
}

func causeText(e *AppError) string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

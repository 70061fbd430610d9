package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/studyace/studyace-server/internal/ai"
	"github.com/studyace/studyace-server/internal/store"
)

// ErrorCode identifies an API error class.
type ErrorCode string

const (
	ErrorCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrorCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrorCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrorCodeHTTPRateLimit ErrorCode = "HTTP_RATE_LIMIT"
	ErrorCodeLLM           ErrorCode = "LLM_ERROR"
	ErrorCodeLLMTimeout    ErrorCode = "LLM_TIMEOUT"
	ErrorCodeLLMParsing    ErrorCode = "LLM_PARSING_ERROR"
	ErrorCodePersistence   ErrorCode = "PERSISTENCE_ERROR"
	ErrorCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrorCodeMissingField  ErrorCode = "MISSING_FIELD"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	ErrorType string         `json:"error_type"`
	Message   string         `json:"message"`
	RequestID *string        `json:"request_id"`
	Details   map[string]any `json:"details"`
}

// Error is the internal error type carried between service and handler layers.
type Error struct {
	Code    ErrorCode
	Status  int
	Type    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// Response converts any error into an HTTP status and response body.
func Response(err error, requestID string) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternalError("unknown error")
	}

	var requestIDPtr *string
	if requestID != "" {
		requestIDPtr = &requestID
	}

	return apiErr.Status, ErrorResponse{
		ErrorCode: string(apiErr.Code),
		ErrorType: apiErr.Type,
		Message:   apiErr.Message,
		RequestID: requestIDPtr,
		Details:   apiErr.Details,
	}
}

// FromError classifies an arbitrary error into the API taxonomy.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, store.ErrNotFound) {
		return NewNotFound(err.Error())
	}

	var parseErr *ai.ParseError
	if errors.As(err, &parseErr) {
		return NewLLMParsingError(parseErr.Reason)
	}

	if errors.Is(err, ai.ErrMissingAPIKey) {
		return NewLLMError("AI relay is not configured", http.StatusServiceUnavailable)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewLLMTimeoutError("AI request timed out")
	}

	if errors.Is(err, ai.ErrProvider) {
		return NewLLMError("AI provider request failed", http.StatusBadGateway)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return NewValidationError(err)
	}

	return NewInternalError(err.Error())
}

// NewInternalError builds an INTERNAL_ERROR.
func NewInternalError(message string) *Error {
	return &Error{
		Code:    ErrorCodeInternal,
		Status:  http.StatusInternalServerError,
		Type:    "InternalError",
		Message: message,
	}
}

// NewValidationError builds a VALIDATION_ERROR with per-field details.
func NewValidationError(err error) *Error {
	return &Error{
		Code:    ErrorCodeValidation,
		Status:  http.StatusUnprocessableEntity,
		Type:    "ValidationError",
		Message: "Input validation failed",
		Details: validationDetails(err),
	}
}

// NewNotFound builds a NOT_FOUND error.
func NewNotFound(message string) *Error {
	return &Error{
		Code:    ErrorCodeNotFound,
		Status:  http.StatusNotFound,
		Type:    "NotFoundError",
		Message: message,
	}
}

// NewMissingField builds a MISSING_FIELD error.
func NewMissingField(field string) *Error {
	return &Error{
		Code:    ErrorCodeMissingField,
		Status:  http.StatusBadRequest,
		Type:    "MissingFieldError",
		Message: fmt.Sprintf("Field '%s' required", field),
		Details: map[string]any{"field": field},
	}
}

// NewInvalidInput builds an INVALID_INPUT error.
func NewInvalidInput(message string) *Error {
	return &Error{
		Code:    ErrorCodeInvalidInput,
		Status:  http.StatusBadRequest,
		Type:    "InvalidInputError",
		Message: message,
	}
}

// NewUnauthorized builds an UNAUTHORIZED error.
func NewUnauthorized(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeUnauthorized,
		Status:  http.StatusUnauthorized,
		Type:    "UnauthorizedError",
		Message: "Invalid API key",
		Details: details,
	}
}

// NewRateLimitExceeded builds an HTTP_RATE_LIMIT error.
func NewRateLimitExceeded(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeHTTPRateLimit,
		Status:  http.StatusTooManyRequests,
		Type:    "HTTPRateLimitExceededError",
		Message: "Rate limit exceeded",
		Details: details,
	}
}

// NewPersistenceError builds a PERSISTENCE_ERROR. The underlying database
// error stays in the logs, not in the response.
func NewPersistenceError(operation string) *Error {
	return &Error{
		Code:    ErrorCodePersistence,
		Status:  http.StatusInternalServerError,
		Type:    "PersistenceError",
		Message: fmt.Sprintf("Storage operation failed: %s", operation),
	}
}

// NewLLMTimeoutError builds an LLM_TIMEOUT error.
func NewLLMTimeoutError(message string) *Error {
	return &Error{
		Code:    ErrorCodeLLMTimeout,
		Status:  http.StatusGatewayTimeout,
		Type:    "LLMTimeoutError",
		Message: message,
	}
}

// NewLLMParsingError builds an LLM_PARSING_ERROR. Raw model output is never
// included in the response.
func NewLLMParsingError(reason string) *Error {
	return &Error{
		Code:    ErrorCodeLLMParsing,
		Status:  http.StatusBadGateway,
		Type:    "LLMParsingError",
		Message: "AI response could not be interpreted",
		Details: map[string]any{"reason": reason},
	}
}

// NewLLMError builds an LLM_ERROR with the given status.
func NewLLMError(message string, status int) *Error {
	return &Error{
		Code:    ErrorCodeLLM,
		Status:  status,
		Type:    "LLMError",
		Message: message,
	}
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

func validationDetails(err error) map[string]any {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, validationErr := range validationErrors {
			fields = append(fields, FieldError{
				Field:   validationErr.Field(),
				Message: validationErr.Error(),
				Value:   validationErr.Value(),
			})
		}
		return map[string]any{"errors": fields}
	}

	return map[string]any{
		"errors": []FieldError{
			{Field: "body", Message: err.Error()},
		},
	}
}

package generation

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a generation failure. The string values are wire-level
// machine codes returned to clients.
type Kind string

const (
	// KindValidation covers bad input shape or length.
	KindValidation Kind = "VALIDATION_FAILED"
	// KindRateLimit is returned when the user's request quota is exhausted.
	KindRateLimit Kind = "RATE_LIMIT_EXCEEDED"
	// KindMissingCredential means the provider API key is not configured.
	KindMissingCredential Kind = "MISSING_API_KEY"
	// KindAPIRequestFailed is a non-2xx response from the provider.
	KindAPIRequestFailed Kind = "API_REQUEST_FAILED"
	// KindAPICallFailed is a transport-level failure talking to the provider.
	KindAPICallFailed Kind = "API_CALL_FAILED"
	// KindUnexpectedFormat means the provider answered with something other
	// than the expected structured response, e.g. an HTML error page.
	KindUnexpectedFormat Kind = "UNEXPECTED_RESPONSE_FORMAT"
	// KindParseFailed means the model output could not be parsed into cards.
	KindParseFailed Kind = "PARSE_FAILED"
	// KindSessionCreateFailed means the session row insert failed.
	KindSessionCreateFailed Kind = "SESSION_CREATE_FAILED"
	// KindPersistFailed means the generated cards could not be stored.
	KindPersistFailed Kind = "PERSIST_FAILED"
)

// Error is the typed failure returned by the generation pipeline.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to the status code the API surface returns.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindRateLimit:
		return fiber.StatusTooManyRequests
	case KindMissingCredential:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// NewError builds a typed generation error.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithDetail attaches a named detail value and returns the error.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// AsError unwraps err into a *Error if possible.
func AsError(err error) (*Error, bool) {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" for untyped errors.
func KindOf(err error) Kind {
	if genErr, ok := AsError(err); ok {
		return genErr.Kind
	}
	return ""
}

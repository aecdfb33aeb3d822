package domain

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ProblemBaseURI prefixes the "type" of problems this API defines.
const ProblemBaseURI = "https://formatapi.dev/problems/"

// Problem types, appended to ProblemBaseURI.
const (
	TypeValidation      = "validation"
	TypeInvalidTemplate = "invalid-template"
	TypeNotFound        = "not-found"
	TypeUpstream        = "ocr-upstream"
	TypeUnavailable     = "unavailable"
	TypeRateLimited     = "rate-limited"
	TypeTooLarge        = "payload-too-large"
)

// Problem implements RFC 9457
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Extensions are merged into the top level JSON object.
	Extensions map[string]interface{} `json:"-"`

	Log error `json:"-"`
}

func (p *Problem) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

func (p *Problem) Unwrap() error {
	return p.Log
}

func (p *Problem) MarshalJSON() ([]byte, error) {
	data := make(map[string]interface{}, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		data[k] = v
	}

	// standard members win over extensions with the same name
	data["type"] = p.Type
	data["title"] = p.Title
	data["status"] = p.Status
	if p.Detail != "" {
		data["detail"] = p.Detail
	}
	if p.Instance != "" {
		data["instance"] = p.Instance
	}
	return json.Marshal(data)
}

type ProblemOption func(*Problem)

// New creates a generic Problem
func New(status int, title, detail string, opts ...ProblemOption) *Problem {
	p := &Problem{
		Type:       "about:blank", // Default as per RFC
		Title:      title,
		Status:     status,
		Detail:     detail,
		Extensions: make(map[string]interface{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithExtension adds a custom key-value pair to the response
func WithExtension(key string, value interface{}) ProblemOption {
	return func(p *Problem) {
		p.Extensions[key] = value
	}
}

// WithLog attaches an internal error for server-side logging
func WithLog(err error) ProblemOption {
	return func(p *Problem) {
		p.Log = err
	}
}

// WithType sets the RFC "type" URI
func WithType(uri string) ProblemOption {
	return func(p *Problem) {
		p.Type = uri
	}
}

// WithProblemType sets the "type" URI to one of the problem types above.
func WithProblemType(name string) ProblemOption {
	return WithType(ProblemBaseURI + name)
}

// Error is a handler error with a status code and a client-safe message.
type Error struct {
	Code int
	// Type is one of the problem types; empty means about:blank.
	Type    string
	Message string
	// Log is the underlying error, logged but never sent to the client.
	Log error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Log
}

// Problem converts e into its RFC 9457 representation.
func (e *Error) Problem() *Problem {
	opts := []ProblemOption{WithLog(e.Log)}
	if e.Type != "" {
		opts = append(opts, WithProblemType(e.Type))
	}
	return New(e.Code, http.StatusText(e.Code), e.Message, opts...)
}

// ValidationError creates a rich validation error
func ValidationError(validationErrors map[string]string) *Problem {
	return New(
		http.StatusBadRequest,
		"Validation Error",
		"One or more fields failed validation",
		WithProblemType(TypeValidation),
		WithExtension("errors", validationErrors),
	)
}

// BadRequestError creates a standard error for a bad request
func BadRequestError(detail string, opts ...ProblemOption) *Problem {
	return New(http.StatusBadRequest, "Bad Request", detail, opts...)
}

// InvalidTemplateError is returned when a template body cannot be rendered.
func InvalidTemplateError(detail string) *Problem {
	return New(http.StatusUnprocessableEntity, "Invalid Template", detail, WithProblemType(TypeInvalidTemplate))
}

// PayloadTooLargeError rejects uploads over the size limit.
func PayloadTooLargeError(detail string) *Problem {
	return New(http.StatusRequestEntityTooLarge, "Payload Too Large", detail, WithProblemType(TypeTooLarge))
}

// InternalError creates a standard error for any internal server error
func InternalError(msg string, err error) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: msg, Log: err}
}

// NotFoundError creates a standard 404 error
func NotFoundError(msg string) *Error {
	return &Error{Code: http.StatusNotFound, Type: TypeNotFound, Message: msg}
}

// UnauthorizedError creates a 401 unauthed error
func UnauthorizedError(msg string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: msg}
}

// UpstreamError creates a 502 for failures of an OCR backend.
func UpstreamError(msg string, err error) *Error {
	return &Error{Code: http.StatusBadGateway, Type: TypeUpstream, Message: msg, Log: err}
}

// UnavailableError creates a 503 for features that are not configured.
func UnavailableError(msg string, err error) *Error {
	return &Error{Code: http.StatusServiceUnavailable, Type: TypeUnavailable, Message: msg, Log: err}
}

// RateLimitError creates standard 429 rate limit error
func RateLimitError(msg string) *Error {
	return &Error{Code: http.StatusTooManyRequests, Type: TypeRateLimited, Message: msg}
}

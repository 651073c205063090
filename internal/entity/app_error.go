package entity

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// ErrorKind is the closed taxonomy of resolution failures.
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION_ERROR"
	KindPaywall    ErrorKind = "PAYWALL_ERROR"
	KindNetwork    ErrorKind = "NETWORK_ERROR"
	KindParse      ErrorKind = "PARSE_ERROR"
	KindUnknown    ErrorKind = "UNKNOWN_ERROR"
)

// Upstream describes the dependency that failed, when one did.
type Upstream struct {
	Hostname        string `json:"hostname,omitempty"`
	StatusCode      int    `json:"statusCode,omitempty"`
	ProviderCode    string `json:"providerCode,omitempty"`
	ProviderMessage string `json:"providerMessage,omitempty"`
}

// AppError is the error value returned by every stage of the pipeline.
type AppError struct {
	Kind     ErrorKind
	Message  string
	Source   Source
	Upstream *Upstream
	Details  map[string]any
	Err      error
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to the response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindPaywall:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to expose to callers.
func (e *AppError) PublicMessage() string {
	if e.Kind == KindUnknown {
		return "An unexpected error occurred"
	}
	return e.Message
}

// LogAttrs describes the error for the request's terminal log event.
func (e *AppError) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("error_type", string(e.Kind)),
		slog.String("error_message", e.Message),
	}
	if e.Source != "" {
		attrs = append(attrs, slog.String("error_source", string(e.Source)))
	}
	if u := e.Upstream; u != nil {
		attrs = append(attrs, slog.Group("upstream",
			slog.String("hostname", u.Hostname),
			slog.Int("status_code", u.StatusCode),
			slog.String("provider_code", u.ProviderCode),
			slog.String("provider_message", u.ProviderMessage),
		))
	}
	return attrs
}

// WithSource tags the error with the strategy that produced it.
func (e *AppError) WithSource(s Source) *AppError {
	if e.Source == "" {
		e.Source = s
	}
	return e
}

func NewValidationError(message string, details map[string]any) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Details: details}
}

func NewPaywallError(siteName, detailURL string) *AppError {
	return &AppError{
		Kind:    KindPaywall,
		Message: fmt.Sprintf("%s uses a hard paywall that cannot be bypassed", siteName),
		Details: map[string]any{"siteName": siteName, "learnMoreUrl": detailURL},
	}
}

func NewNetworkError(message string, upstream *Upstream, err error) *AppError {
	return &AppError{Kind: KindNetwork, Message: message, Upstream: upstream, Err: err}
}

func NewParseError(source Source, message string, err error) *AppError {
	return &AppError{Kind: KindParse, Message: message, Source: source, Err: err}
}

func NewUnknownError(err error) *AppError {
	return &AppError{Kind: KindUnknown, Message: "unexpected failure", Err: err}
}

// AsAppError returns err as an *AppError, classifying anything else as UNKNOWN_ERROR.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewUnknownError(err)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Package xerrors carries HTTP status and response details alongside an
// error so handlers can return one value and let WriteError render it.
package xerrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Error struct {
	StatusCode int
	Message    string
	Cause      error
	RateLimit  *RateLimitInfo
	Validation *ValidationInfo
}

type RateLimitInfo struct {
	RetryAfter time.Duration
	Reason     string
}

// ValidationInfo maps JSON field names (prefixed "[i]." inside a batch) to
// what is wrong with them.
type ValidationInfo struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Validation != nil && len(e.Validation.Fields) > 0 {
		msg = fmt.Sprintf("%s (%d invalid fields)", msg, len(e.Validation.Fields))
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Fields returns the validation messages, or nil when there are none.
func (e *Error) Fields() map[string]string {
	if e.Validation == nil || len(e.Validation.Fields) == 0 {
		return nil
	}
	return e.Validation.Fields
}

func BadRequest(opts ...Option) *Error         { return newErr(http.StatusBadRequest, opts) }
func Unauthorized(opts ...Option) *Error       { return newErr(http.StatusUnauthorized, opts) }
func Forbidden(opts ...Option) *Error          { return newErr(http.StatusForbidden, opts) }
func NotFound(opts ...Option) *Error           { return newErr(http.StatusNotFound, opts) }
func Gone(opts ...Option) *Error               { return newErr(http.StatusGone, opts) }
func UpgradeRequired(opts ...Option) *Error    { return newErr(http.StatusUpgradeRequired, opts) }
func TooManyRequests(opts ...Option) *Error    { return newErr(http.StatusTooManyRequests, opts) }
func Internal(opts ...Option) *Error           { return newErr(http.StatusInternalServerError, opts) }
func ServiceUnavailable(opts ...Option) *Error { return newErr(http.StatusServiceUnavailable, opts) }

// Validation is a 422 carrying per-field messages.
func Validation(fields map[string]string, opts ...Option) *Error {
	e := newErr(http.StatusUnprocessableEntity, opts)
	e.Validation = &ValidationInfo{Fields: fields}
	return e
}

func newErr(status int, opts []Option) *Error {
	e := &Error{StatusCode: status, Message: strings.ToLower(http.StatusText(status))}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type Option func(*Error)

func WithMessage(msg string) Option { return func(e *Error) { e.Message = msg } }

func WithCause(err error) Option { return func(e *Error) { e.Cause = err } }

func WithRetryAfter(d time.Duration) Option {
	return func(e *Error) { e.rateLimit().RetryAfter = d }
}

// WithReason sets the X-RateLimit-Reason header value.
func WithReason(reason string) Option {
	return func(e *Error) { e.rateLimit().Reason = reason }
}

func (e *Error) rateLimit() *RateLimitInfo {
	if e.RateLimit == nil {
		e.RateLimit = &RateLimitInfo{}
	}
	return e.RateLimit
}

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

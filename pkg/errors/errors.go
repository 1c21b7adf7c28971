// Package errors defines the coded errors returned across barstack.
//
// Every error that reaches a user carries a [Code]. The CLI prints the
// message, the server turns the code into a status with [HTTPStatus] and
// returns it in the response body.
//
// The bar engine itself never fails: malformed samples and degenerate bars
// are dropped. Errors come from the layers around it (figure decoding,
// option validation, rendering, caching, fetching).
//
//	err := errors.New(errors.ErrCodeInvalidBarMode, "invalid barmode: %q", mode)
//	if errors.Is(err, errors.ErrCodeInvalidBarMode) {
//	    ...
//	}
//	err = errors.Wrap(errors.ErrCodeRenderFailed, cause, "render %s", format)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the kind of failure.
type Code string

const (
	// Bad input: figures, options, config files and paths.
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFigure    Code = "INVALID_FIGURE"
	ErrCodeInvalidTrace     Code = "INVALID_TRACE"
	ErrCodeInvalidBarMode   Code = "INVALID_BARMODE"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle     Code = "INVALID_STYLE"
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeCache        Code = "CACHE_ERROR"
	ErrCodeTimeout      Code = "TIMEOUT"
	ErrCodeFetchFailed  Code = "FETCH_FAILED"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a coded error. Cause, when set, is reachable through Unwrap.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage is the message without the code prefix and cause. Errors
// without a code are returned as is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err's code to the status the server responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFigure, ErrCodeInvalidTrace, ErrCodeInvalidBarMode,
		ErrCodeInvalidFormat, ErrCodeInvalidStyle, ErrCodeInvalidDimension, ErrCodeInvalidPath,
		ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

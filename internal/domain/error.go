package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeInternal        ErrorCode = "INTERNAL"
	CodeCanceled        ErrorCode = "CANCELED"
	CodeNotImplemented  ErrorCode = "NOT_IMPLEMENTED"
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		if msg == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op != "" || op == "" {
			return existing
		}
		return &Error{
			Code:    existing.Code,
			Op:      op,
			Message: existing.Message,
			Cause:   existing.Cause,
		}
	}
	return E(code, op, "", err)
}

// CodeFrom extracts the error code from an error chain.
func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code, true
	}
	switch {
	case errors.Is(err, ErrReservedToolName), errors.Is(err, ErrDuplicateToolName), errors.Is(err, ErrEmptyCatalog):
		return CodeInvalidArgument, true
	case errors.Is(err, ErrToolNotFound):
		return CodeNotFound, true
	case errors.Is(err, ErrStreamingUnsupported):
		return CodeNotImplemented, true
	default:
		return "", false
	}
}

var (
	// ErrReservedToolName signals a catalog tool named like the search tool.
	ErrReservedToolName = errors.New("tool name is reserved for the search tool")
	// ErrDuplicateToolName signals two catalog tools sharing one name.
	ErrDuplicateToolName = errors.New("duplicate tool name")
	// ErrEmptyCatalog signals a catalog with no searchable tools.
	ErrEmptyCatalog = errors.New("catalog contains no searchable tools")
	// ErrToolNotFound signals a lookup for a name the index does not hold.
	ErrToolNotFound = errors.New("tool not found")
	// ErrStreamingUnsupported signals a request that asked for streaming.
	ErrStreamingUnsupported = errors.New("streaming responses are not supported")
)

package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
)

// Code identifies the category of a processing failure. The values are part
// of the service's wire contract and must remain stable.
type Code string

const (
	CodeInvalidPDF    Code = "INVALID_PDF"
	CodeEncryptedPDF  Code = "ENCRYPTED_PDF"
	CodeFileReadError Code = "FILE_READ_ERROR"
	CodeMemoryError   Code = "MEMORY_ERROR"
	CodeParsingError  Code = "PARSING_ERROR"
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeTimeout       Code = "TIMEOUT_ERROR"
	CodeUnknown       Code = "UNKNOWN_ERROR"
)

// ProcessingError is the typed error attached to a failed ProcessingResult.
// It carries a stable code, a recoverability flag derived from the code, and
// optional remediation suggestions for the caller.
type ProcessingError struct {
	Code        Code      `json:"code"`
	Message     string    `json:"message"`
	Detail      string    `json:"detail,omitempty"`
	FilePath    string    `json:"file_path,omitempty"`
	PageNumber  int       `json:"page_number,omitempty"`
	Recoverable bool      `json:"recoverable"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Timestamp   time.Time `json:"timestamp"`

	cause error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *ProcessingError) Unwrap() error {
	return e.cause
}

// WithFile attaches the file path the error occurred on.
func (e *ProcessingError) WithFile(path string) *ProcessingError {
	e.FilePath = path
	return e
}

// WithPage attaches the page number the error occurred on.
func (e *ProcessingError) WithPage(page int) *ProcessingError {
	e.PageNumber = page
	return e
}

// WithDetail attaches extra context to the error.
func (e *ProcessingError) WithDetail(detail string) *ProcessingError {
	e.Detail = detail
	return e
}

// New creates a ProcessingError with the given code and message.
func New(code Code, message string) *ProcessingError {
	return &ProcessingError{
		Code:        code,
		Message:     message,
		Recoverable: code.IsRecoverable(),
		Suggestions: code.Suggestions(),
		Timestamp:   time.Now(),
	}
}

// Wrap converts an arbitrary error into a ProcessingError with the given code.
func Wrap(code Code, err error) *ProcessingError {
	pe := New(code, err.Error())
	pe.cause = err
	return pe
}

// IsValid reports whether the code is one of the eight known codes.
func (c Code) IsValid() bool {
	switch c {
	case CodeInvalidPDF, CodeEncryptedPDF, CodeFileReadError, CodeMemoryError,
		CodeParsingError, CodeValidation, CodeTimeout, CodeUnknown:
		return true
	default:
		return false
	}
}

// IsRecoverable reports whether failures with this code are generally worth
// retrying or degrading around. Structural problems with the document itself
// are not; transient and environmental problems are.
func (c Code) IsRecoverable() bool {
	switch c {
	case CodeInvalidPDF, CodeEncryptedPDF:
		return false // the document will not get better
	case CodeFileReadError, CodeMemoryError, CodeTimeout:
		return true // environment may change between attempts
	case CodeParsingError, CodeValidation:
		return true // partial results or relaxed settings may succeed
	default:
		return false
	}
}

// Suggestions returns the default remediation suggestions for a code.
func (c Code) Suggestions() []string {
	switch c {
	case CodeInvalidPDF:
		return []string{
			"verify the file is a PDF and not a renamed office document",
			"re-export or re-download the source file",
		}
	case CodeEncryptedPDF:
		return []string{
			"remove the password with the originating application",
			"request an unencrypted copy of the document",
		}
	case CodeFileReadError:
		return []string{
			"check that the file exists and is readable by the server",
			"confirm the path is inside the configured document directory",
		}
	case CodeMemoryError:
		return []string{
			"lower the configured maximum file size",
			"process the document in smaller page ranges",
		}
	case CodeParsingError:
		return []string{
			"run validation to locate the damaged objects",
			"try repairing the file with a PDF tool before re-submitting",
		}
	case CodeValidation:
		return []string{"review the request parameters and resubmit"}
	case CodeTimeout:
		return []string{
			"increase the job timeout",
			"split the document and queue the parts separately",
		}
	default:
		return nil
	}
}

// AllCodes returns every known code, in contract order.
func AllCodes() []Code {
	return []Code{
		CodeInvalidPDF,
		CodeEncryptedPDF,
		CodeFileReadError,
		CodeMemoryError,
		CodeParsingError,
		CodeValidation,
		CodeTimeout,
		CodeUnknown,
	}
}

// Classify maps an arbitrary error to a ProcessingError. Existing
// ProcessingErrors pass through unchanged.
func Classify(err error) *ProcessingError {
	if err == nil {
		return nil
	}

	var pe *ProcessingError
	if stderrors.As(err, &pe) {
		return pe
	}

	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return Wrap(CodeTimeout, err)
	case stderrors.Is(err, fs.ErrNotExist), stderrors.Is(err, fs.ErrPermission):
		return Wrap(CodeFileReadError, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "encrypt") || strings.Contains(msg, "password"):
		return Wrap(CodeEncryptedPDF, err)
	case strings.Contains(msg, "not a pdf") || strings.Contains(msg, "malformed pdf") ||
		strings.Contains(msg, "invalid pdf"):
		return Wrap(CodeInvalidPDF, err)
	case strings.Contains(msg, "xref") || strings.Contains(msg, "parse") ||
		strings.Contains(msg, "stream"):
		return Wrap(CodeParsingError, err)
	case strings.Contains(msg, "memory"):
		return Wrap(CodeMemoryError, err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return Wrap(CodeTimeout, err)
	}

	return Wrap(CodeUnknown, err)
}

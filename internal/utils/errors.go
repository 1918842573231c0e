package utils

import (
	"fmt"

	"github.com/dl-alexandre/gacl/internal/types"
)

// Exit codes
const (
	ExitSuccess = 0
	// Resource errors (20-29)
	ExitInputNotFound     = 20
	ExitOutputNotWritable = 21
	// Validation errors (40-49)
	ExitInvalidArgument = 40
	ExitInvalidConfig   = 41
	ExitMissingColumn   = 44
	ExitMalformedCSV    = 45
	// Interrupted
	ExitCancelled = 98
	// Unknown
	ExitUnknown = 99
)

// Error codes (tool-owned, stable)
const (
	ErrCodeInputNotFound     = "INPUT_NOT_FOUND"
	ErrCodeOutputNotWritable = "OUTPUT_NOT_WRITABLE"
	ErrCodeInvalidArgument   = "INVALID_ARGUMENT"
	ErrCodeInvalidConfig     = "INVALID_CONFIG"
	ErrCodeMissingColumn     = "MISSING_COLUMN"
	ErrCodeMalformedCSV      = "MALFORMED_CSV"
	ErrCodeCancelled         = "CANCELLED"
	ErrCodeUnknown           = "UNKNOWN"
)

// CLIErrorBuilder helps construct CLIError instances
type CLIErrorBuilder struct {
	err types.CLIError
}

// NewCLIError creates a new error builder
func NewCLIError(code, message string) *CLIErrorBuilder {
	return &CLIErrorBuilder{
		err: types.CLIError{
			Code:    code,
			Message: message,
		},
	}
}

func (b *CLIErrorBuilder) WithRetryable(retryable bool) *CLIErrorBuilder {
	b.err.Retryable = retryable
	return b
}

func (b *CLIErrorBuilder) WithContext(key string, value interface{}) *CLIErrorBuilder {
	if b.err.Context == nil {
		b.err.Context = make(map[string]interface{})
	}
	b.err.Context[key] = value
	return b
}

func (b *CLIErrorBuilder) Build() types.CLIError {
	return b.err
}

// GetExitCode returns the exit code for an error code
func GetExitCode(errorCode string) int {
	mapping := map[string]int{
		ErrCodeInputNotFound:     ExitInputNotFound,
		ErrCodeOutputNotWritable: ExitOutputNotWritable,
		ErrCodeInvalidArgument:   ExitInvalidArgument,
		ErrCodeInvalidConfig:     ExitInvalidConfig,
		ErrCodeMissingColumn:     ExitMissingColumn,
		ErrCodeMalformedCSV:      ExitMalformedCSV,
		ErrCodeCancelled:         ExitCancelled,
	}
	if code, ok := mapping[errorCode]; ok {
		return code
	}
	return ExitUnknown
}

// AppError is a custom error type that carries CLI error info
type AppError struct {
	CLIError types.CLIError
	// Cause is the underlying error, kept for --debug stack traces
	Cause error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.CLIError.Code, e.CLIError.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates an AppError from a CLIError
func NewAppError(cliErr types.CLIError) *AppError {
	return &AppError{CLIError: cliErr}
}

// WithCause attaches the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

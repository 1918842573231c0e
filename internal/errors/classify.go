package errors

import (
	"context"

	pkgerrors "github.com/pkg/errors"

	"github.com/dl-alexandre/gacl/internal/acl"
	"github.com/dl-alexandre/gacl/internal/csvio"
	"github.com/dl-alexandre/gacl/internal/export"
	"github.com/dl-alexandre/gacl/internal/logging"
	"github.com/dl-alexandre/gacl/internal/utils"
)

// ClassifyRunError maps an error from a filter run to an AppError with a
// stable code, logging it once. AppErrors are returned unchanged.
func ClassifyRunError(err error, input string, logger logging.Logger) *utils.AppError {
	if err == nil {
		return nil
	}

	var appErr *utils.AppError
	if pkgerrors.As(err, &appErr) {
		return appErr
	}

	var (
		missing  *export.MissingColumnError
		rowErr   *export.MalformedRowError
		parseErr *csvio.ParseError
		outErr   *acl.OutputError
		builder  *utils.CLIErrorBuilder
	)

	switch {
	case pkgerrors.As(err, &missing):
		builder = utils.NewCLIError(utils.ErrCodeMissingColumn, missing.Error()).
			WithContext("column", missing.Column).
			WithContext("line", missing.Line).
			WithContext("suggestedAction", "re-run the GAM export with the id, mimeType, owners and permissions fields")
	case pkgerrors.As(err, &rowErr):
		builder = utils.NewCLIError(utils.ErrCodeMalformedCSV, rowErr.Error()).
			WithContext("line", rowErr.Line)
	case pkgerrors.As(err, &parseErr):
		builder = utils.NewCLIError(utils.ErrCodeMalformedCSV, parseErr.Error()).
			WithContext("line", parseErr.Line).
			WithContext("suggestedAction", "check the quote character matches the export")
	case pkgerrors.As(err, &outErr):
		builder = utils.NewCLIError(utils.ErrCodeOutputNotWritable, outErr.Error())
	case pkgerrors.Is(err, context.Canceled), pkgerrors.Is(err, context.DeadlineExceeded):
		builder = utils.NewCLIError(utils.ErrCodeCancelled, "run interrupted").
			WithRetryable(true)
	default:
		builder = utils.NewCLIError(utils.ErrCodeUnknown, err.Error())
	}
	builder.WithContext("input", input)

	cliErr := builder.Build()
	logger.Error("Filter run failed",
		logging.F("errorCode", cliErr.Code),
		logging.F("message", cliErr.Message),
		logging.F("input", input),
	)

	return utils.NewAppError(cliErr).WithCause(err)
}

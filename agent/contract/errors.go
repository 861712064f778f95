package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")

	// Report extraction taxonomy. All three propagate unchanged to the
	// caller; the service layer maps each to a distinct status code.
	ErrReportNotFound = errors.New("report file not found")
	ErrReportFormat   = errors.New("report file is not a PDF")
	ErrReportExtract  = errors.New("report extraction failed")
)

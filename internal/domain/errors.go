package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Configuration errors — always fatal to the run, never retried.
	ErrEmptyScope    = errors.New("audit scope matches no accounting period")
	ErrUnknownModule = errors.New("unknown validator module")

	// Execution errors.
	ErrValidatorFailed = errors.New("validator execution failed")

	// Render errors — fatal to report generation, but the computed
	// findings remain available to the caller in raw form.
	ErrUnsupportedFormat = errors.New("unsupported report format")

	// Data source errors.
	ErrSourceUnavailable = errors.New("audit data source unavailable")
)

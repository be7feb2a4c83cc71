package errors

import (
	"errors"
	"log/slog"
)

// CLIErrorAdapter handles error presentation and exit code determination for
// the command-line entry point.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var de *DoxyfxError
	if errors.As(err, &de) {
		return a.exitCodeFromCategory(de)
	}

	return 1
}

// exitCodeFromCategory maps DoxyfxError categories to exit codes.
func (a *CLIErrorAdapter) exitCodeFromCategory(err *DoxyfxError) int {
	switch err.Category {
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryInput, CategoryParse:
		return 3 // Bad input
	case CategoryWrite, CategoryLink:
		return 11 // Output/linking error
	case CategoryLint, CategoryGate:
		return 2 // Quality check failed
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// Report logs the error with structured context before exit.
func (a *CLIErrorAdapter) Report(err error) {
	if err == nil {
		return
	}

	var de *DoxyfxError
	if !errors.As(err, &de) {
		a.logger.Error("Command failed", "error", err)
		return
	}

	attrs := []any{
		"category", string(de.Category),
		"error", de.Message,
	}
	if de.Cause != nil && a.verbose {
		attrs = append(attrs, "cause", de.Cause.Error())
	}
	for k, v := range de.Context {
		attrs = append(attrs, k, v)
	}
	a.logger.Error("Command failed", attrs...)
}

package errors

import (
	"context"
	"fmt"
	"log/slog"
)

// CLIErrorAdapter maps errors to exit codes and user-facing messages.
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
	classified, ok := AsClassified(err)
	if !ok {
		return 1
	}
	switch classified.Category() {
	case CategoryNotFound:
		return 1 // Unresolved reference
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig, CategoryScript:
		return 7 // Configuration error
	case CategoryNetwork:
		return 8 // External system error
	case CategoryFileSystem, CategoryRender:
		return 11
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// FormatError formats an error for user-facing display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok || a.verbose {
		return fmt.Sprintf("Error: %v", err)
	}
	if classified.Category() == CategoryInternal {
		return "Internal error occurred (use -v for details)"
	}
	msg := "Error: " + classified.Message()
	if classified.Cause() != nil {
		msg += ": " + classified.Cause().Error()
	}
	return msg
}

// Log writes err to the adapter's logger at a level derived from its severity.
func (a *CLIErrorAdapter) Log(err error) {
	if err == nil {
		return
	}
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{slog.String("category", string(classified.Category()))}
	for k, v := range classified.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if classified.Cause() != nil {
		attrs = append(attrs, slog.String("error", classified.Cause().Error()))
	}
	a.logger.LogAttrs(context.Background(), slogLevelFromSeverity(classified.Severity()), classified.Message(), attrs...)
}

func slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

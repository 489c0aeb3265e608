package tailgen

import (
	"fmt"
	"io"
)

// OutputFormat selects how lint results are printed
type OutputFormat string

// Output formats
const (
	OutputIssues  OutputFormat = "issues"
	OutputSummary OutputFormat = "summary"
	OutputFull    OutputFormat = "full"
	OutputJSON    OutputFormat = "json"
)

// DetermineOutputFormat selects the appropriate output format based on flags
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	// Explicit quiet flag wins (exit code only)
	if quiet {
		return OutputIssues
	}

	switch OutputFormat(formatFlag) {
	case OutputIssues, OutputSummary, OutputFull, OutputJSON:
		return OutputFormat(formatFlag)
	default:
		// Following golangci-lint's UX: issues only by default
		return OutputIssues
	}
}

// WriteOutput writes the lint result in the specified format
func WriteOutput(w io.Writer, result *LintResult, format OutputFormat, opts LintOptions) error {
	switch format {
	case OutputSummary:
		// Statistics and misses only (no individual issues)
		verbose := NewVerboseReporter(w, ShouldUseColors(opts.UseColors))
		verbose.PrintStatistics(result)
		verbose.PrintResolvedProgress(result)
		verbose.PrintTopMisses(result)
		verbose.PrintWarnings(result.Warnings)

	case OutputFull:
		reporter := NewReporter(w, opts)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(result)

		verbose := NewVerboseReporter(w, reporter.UseColors())
		verbose.PrintStatistics(result)
		verbose.PrintResolvedProgress(result)
		verbose.PrintTopMisses(result)
		verbose.PrintWarnings(result.Warnings)

	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}

	default:
		// Issues only (golangci-lint format)
		reporter := NewReporter(w, opts)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(result)
	}
	return nil
}

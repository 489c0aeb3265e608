package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/tailgen"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Report class names that look like utilities but do not resolve",
	Long: `Check class attributes in content files for near misses such as "brightness-999"
or "hovr:p-4": tokens a utility grammar claims but the theme cannot resolve.
Issues are printed in golangci-lint format.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runLint,
}

func init() {
	f := lintCmd.Flags()
	f.Bool("strict", false, "Exit 1 on any issue, warnings included (CI mode)")
	f.String("output-format", "", "Output format: issues|summary|full|json")
	f.Int("max-issues-per-linter", 0, "Max issues to show per linter (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (tailgen) suffix on issues")
}

func runLint(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	opts := buildLintOptions()
	result, err := tailgen.Lint(cmd.Context(), cfg, opts)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	outputFormat := getStringWithFallback("output-format", "lint.output-format", "")
	format := tailgen.DetermineOutputFormat(outputFormat, quiet)

	if !quiet {
		if err := tailgen.WriteOutput(cmd.OutOrStdout(), result, format, opts); err != nil {
			return err
		}
	}

	// Exit code logic - "Soft Gate" approach
	strict := getBoolWithFallback("strict", "lint.strict", false)
	if strict {
		// Strict mode: any issue (error or warning) fails the build
		if len(result.Issues) > 0 || result.TruncatedCount > 0 {
			return &exitError{code: 1}
		}
	} else if hasErrors(result) {
		// Default "Soft Gate" mode: only errors fail the build
		return &exitError{code: 1}
	}

	return nil
}

func hasErrors(result *tailgen.LintResult) bool {
	for _, issue := range result.Issues {
		if issue.Severity == tailgen.SeverityError {
			return true
		}
	}
	// truncated issues may hide errors
	return result.TruncatedCount > 0
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/tailgen"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Build the stylesheet from the classes your content uses",
	Long: `Scan the configured content globs, resolve every candidate class against the
theme and write only the matching rules. The output is deterministic and only
rewritten when it changes.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("output", "o", "dist/tailgen.css", "Output stylesheet path")
	f.Bool("minify", false, "Write compact CSS")
	f.String("report", "", "Also write a JSON build report to this path")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	result, err := tailgen.Build(cmd.Context(), cfg, buildOptions())
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	output := outputPath()
	written, err := tailgen.WriteFile(output, result.CSS)
	if err != nil {
		return err
	}

	if report := getStringWithFallback("report", "build.report", ""); report != "" {
		if err := writeReport(report, result); err != nil {
			return err
		}
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	if !quiet {
		printBuild(cmd.OutOrStdout(), cmd.ErrOrStderr(), output, written, result)
	}

	return nil
}

// printBuild reports one build pass; warnings go to stderr.
func printBuild(stdout, stderr io.Writer, output string, written bool, result *tailgen.Result) {
	useColors := tailgen.ShouldUseColors(getBoolWithFallback("color", "color", false))

	status := "Wrote"
	if !written {
		status = "Unchanged"
	}
	fmt.Fprintf(stdout, "%s %s\n", tailgen.RenderStyle(tailgen.StyleGreen, status, useColors), output)
	fmt.Fprintf(stdout, "  Files scanned: %d\n", result.Stats.FilesScanned)
	fmt.Fprintf(stdout, "  Rules generated: %d\n", result.Stats.Rules)

	verbose := tailgen.NewVerboseReporter(stdout, useColors)
	if getBoolWithFallback("verbose", "verbose", false) {
		verbose.PrintBuildStats(result)
	}

	tailgen.NewVerboseReporter(stderr, useColors).PrintWarnings(result.Warnings)
}

func writeReport(path string, result *tailgen.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := tailgen.WriteBuildJSON(f, result); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}

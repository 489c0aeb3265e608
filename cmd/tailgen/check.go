package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/tailgen"
	"github.com/yacobolo/tailgen/internal/css"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the stylesheet on disk is up to date",
	Long: `Build in memory and compare with the output file without writing it.
Exits 1 and lists the selectors that would change when the file is stale.
Use in CI after committing generated CSS.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringP("output", "o", "dist/tailgen.css", "Stylesheet path to check")
	f.Bool("minify", false, "Expect compact CSS")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	result, err := tailgen.Build(cmd.Context(), cfg, buildOptions())
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	output := outputPath()
	existing, err := os.ReadFile(output)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", output, err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	useColors := tailgen.ShouldUseColors(getBoolWithFallback("color", "color", false))
	stdout := cmd.OutOrStdout()

	if err == nil && bytes.Equal(existing, result.CSS) {
		if !quiet {
			fmt.Fprintf(stdout, "%s is up to date (%d rules)\n", output, result.Stats.Rules)
		}
		return nil
	}

	if !quiet {
		if err != nil {
			fmt.Fprintf(stdout, "%s %s does not exist\n", tailgen.RenderStyle(tailgen.StyleRed, "Stale:", useColors), output)
		} else {
			fmt.Fprintf(stdout, "%s %s is out of date\n", tailgen.RenderStyle(tailgen.StyleRed, "Stale:", useColors), output)
			printDrift(cmd, existing, result, useColors)
		}
		fmt.Fprintln(stdout, tailgen.RenderStyle(tailgen.StyleGray, "Run `tailgen build` to update it.", useColors))
	}
	return &exitError{code: 1}
}

// printDrift lists selector-level differences. A file that does not parse,
// or differs only in formatting, is reported as such.
func printDrift(cmd *cobra.Command, existing []byte, result *tailgen.Result, useColors bool) {
	stdout := cmd.OutOrStdout()

	blocks, err := css.ParseStylesheet(string(existing))
	if err != nil {
		fmt.Fprintf(stdout, "  existing file is not valid CSS: %v\n", err)
		return
	}

	diff := css.Compare(blocks, result.Blocks)
	if diff.Empty() {
		fmt.Fprintln(stdout, "  same rules, different formatting or order")
		return
	}
	tailgen.NewVerboseReporter(stdout, useColors).PrintDiff(diff)
}

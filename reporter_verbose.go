package tailgen

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yacobolo/tailgen/internal/css"
)

// VerboseReporter handles detailed statistics and warnings
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{
		w:         w,
		useColors: useColors,
	}
}

// PrintStatistics outputs lint statistics
func (r *VerboseReporter) PrintStatistics(result *LintResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Utility Lint Statistics", r.useColors))
	fmt.Fprintln(r.w, "-----------------------")

	fmt.Fprintf(r.w, "Files Scanned:     %d\n", result.FilesScanned)
	fmt.Fprintf(r.w, "Classes Found:     %d\n", result.ClassesFound)
	fmt.Fprintf(r.w, "Resolved:          %d (%.1f%%)\n", result.Resolved, result.ResolvedRate)
	fmt.Fprintf(r.w, "Near Misses:       %d\n", len(result.Issues)+result.TruncatedCount)
	fmt.Fprintf(r.w, "Custom Classes:    %d\n", result.Unrecognized)
}

// PrintResolvedProgress shows the share of utility-like classes that resolve
func (r *VerboseReporter) PrintResolvedProgress(result *LintResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Resolved Utilities", r.useColors))
	fmt.Fprintln(r.w, "------------------")
	printProgressBar(r.w, result.ResolvedRate)
}

// PrintTopMisses shows the most frequent near misses
func (r *VerboseReporter) PrintTopMisses(result *LintResult) {
	if len(result.TopMisses) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleGreen, "Most Frequent Misses", r.useColors))
	fmt.Fprintln(r.w, "--------------------")

	for i, miss := range result.TopMisses {
		if i >= 10 {
			break
		}
		if miss.Suggestion != "" {
			fmt.Fprintf(r.w, "%d. %q - %d occurrences → Use %q\n", i+1, miss.Token, miss.Occurrences, miss.Suggestion)
		} else {
			fmt.Fprintf(r.w, "%d. %q - %d occurrences\n", i+1, miss.Token, miss.Occurrences)
		}
	}
}

// PrintWarnings shows scan warnings
func (r *VerboseReporter) PrintWarnings(warnings []ScanWarning) {
	if len(warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")

	for _, warning := range warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}

// PrintBuildStats outputs build statistics
func (r *VerboseReporter) PrintBuildStats(result *Result) {
	s := result.Stats

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Build Statistics", r.useColors))
	fmt.Fprintln(r.w, "----------------")

	fmt.Fprintf(r.w, "Files Discovered:  %d\n", s.FilesDiscovered)
	fmt.Fprintf(r.w, "Files Scanned:     %d\n", s.FilesScanned)
	fmt.Fprintf(r.w, "Files Skipped:     %d\n", s.FilesSkipped)
	if s.FilesUnreadable > 0 {
		fmt.Fprintf(r.w, "Files Unreadable:  %d\n", s.FilesUnreadable)
	}
	fmt.Fprintf(r.w, "Candidate Tokens:  %d\n", s.Tokens)
	fmt.Fprintf(r.w, "Rules Emitted:     %d\n", s.Rules)
	fmt.Fprintf(r.w, "Output Size:       %s\n", formatBytes(len(result.CSS)))
	fmt.Fprintf(r.w, "Duration:          %s\n", s.Duration.Round(time.Microsecond))

	if len(s.Categories) > 0 {
		parts := make([]string, len(s.Categories))
		for i, c := range s.Categories {
			parts[i] = fmt.Sprintf("%s %d", c.Category, c.Blocks)
		}
		fmt.Fprintf(r.w, "Categories:        %s\n", strings.Join(parts, ", "))
	}
	if len(result.Plugins) > 0 {
		fmt.Fprintf(r.w, "Plugins:           %s (not executed)\n", strings.Join(result.Plugins, ", "))
	}
}

// PrintDiff outputs an incremental rebuild's selector changes
func (r *VerboseReporter) PrintDiff(d css.Diff) {
	for _, b := range d.Added {
		fmt.Fprintf(r.w, "%s %s\n", RenderStyle(StyleGreen, "+", r.useColors), describeBlock(b))
	}
	for _, b := range d.Changed {
		fmt.Fprintf(r.w, "%s %s\n", RenderStyle(StyleYellow, "~", r.useColors), describeBlock(b))
	}
	for _, b := range d.Removed {
		fmt.Fprintf(r.w, "%s %s\n", RenderStyle(StyleRed, "-", r.useColors), describeBlock(b))
	}
}

func describeBlock(b css.Block) string {
	if b.Media == "" {
		return b.Selector
	}
	return "@media " + b.Media + " " + b.Selector
}

// printProgressBar prints a visual progress bar
func printProgressBar(w io.Writer, percentage float64) {
	barWidth := 20
	filled := int(percentage / 100 * float64(barWidth))

	fmt.Fprint(w, "[")
	for i := 0; i < barWidth; i++ {
		if i < filled {
			fmt.Fprint(w, "█")
		} else {
			fmt.Fprint(w, "░")
		}
	}
	fmt.Fprintf(w, "] %.1f%%\n", percentage)
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

package tailgen

import (
	"encoding/json"
	"io"
	"time"

	"github.com/yacobolo/tailgen/internal/utility"
)

// JSONOutput represents the structured lint export schema
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Issues    []JSONIssue `json:"issues"`
	TopMisses []JSONMiss  `json:"top_misses"`
	Warnings  []string    `json:"warnings"`
}

// JSONSummary contains high-level issue counts
type JSONSummary struct {
	TotalIssues  int     `json:"total_issues"`
	Errors       int     `json:"errors"`
	Warnings     int     `json:"warnings"`
	FilesScanned int     `json:"files_scanned"`
	ClassesFound int     `json:"classes_found"`
	Resolved     int     `json:"resolved"`
	ResolvedRate float64 `json:"resolved_percentage"`
}

// JSONIssue represents a single linting issue
type JSONIssue struct {
	File       string `json:"file"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Linter     string `json:"linter"`
	Source     string `json:"source,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// JSONMiss is a frequently missed utility
type JSONMiss struct {
	Token       string `json:"token"`
	Occurrences int    `json:"occurrences"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// WriteJSON writes the lint result as JSON
func WriteJSON(w io.Writer, result *LintResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(result))
}

// buildJSONOutput converts LintResult to JSONOutput
func buildJSONOutput(result *LintResult) JSONOutput {
	var errors, warnings int
	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}

	issues := make([]JSONIssue, len(result.Issues))
	for i, issue := range result.Issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		suggestion := ""
		if issue.Replacement != nil {
			suggestion = issue.Replacement.NewText
		}
		issues[i] = JSONIssue{
			File:       issue.Pos.Filename,
			Line:       issue.Pos.Line,
			Column:     issue.Pos.Column,
			Severity:   issue.Severity,
			Message:    issue.Text,
			Linter:     issue.FromLinter,
			Source:     source,
			Suggestion: suggestion,
		}
	}

	misses := make([]JSONMiss, len(result.TopMisses))
	for i, m := range result.TopMisses {
		misses[i] = JSONMiss{Token: m.Token, Occurrences: m.Occurrences, Suggestion: m.Suggestion}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:  len(result.Issues),
			Errors:       errors,
			Warnings:     warnings,
			FilesScanned: result.FilesScanned,
			ClassesFound: result.ClassesFound,
			Resolved:     result.Resolved,
			ResolvedRate: result.ResolvedRate,
		},
		Issues:    issues,
		TopMisses: misses,
		Warnings:  warningStrings(result.Warnings),
	}
}

// BuildReport is the JSON export of a build
type BuildReport struct {
	Version   string       `json:"version"`
	Timestamp string       `json:"timestamp"`
	Stats     BuildStats   `json:"stats"`
	Rules     []ReportRule `json:"rules"`
	Warnings  []string     `json:"warnings"`
	Plugins   []string     `json:"plugins"`
}

// ReportRule is one emitted rule in a BuildReport
type ReportRule struct {
	Token        string                `json:"token"`
	Utility      string                `json:"utility"`
	Selector     string                `json:"selector"`
	Media        string                `json:"media,omitempty"`
	Arbitrary    bool                  `json:"arbitrary,omitempty"`
	Declarations []utility.Declaration `json:"declarations"`
}

// WriteBuildJSON writes a build result as JSON, rules in output order
func WriteBuildJSON(w io.Writer, result *Result) error {
	utilities := make(map[string]string, len(result.Rules))
	arbitrary := make(map[string]bool, len(result.Rules))
	for _, r := range result.Rules {
		utilities[r.Token] = r.Utility
		arbitrary[r.Token] = r.Arbitrary
	}

	rules := make([]ReportRule, len(result.Blocks))
	for i, b := range result.Blocks {
		rules[i] = ReportRule{
			Token:        b.Token,
			Utility:      utilities[b.Token],
			Selector:     b.Selector,
			Media:        b.Media,
			Arbitrary:    arbitrary[b.Token],
			Declarations: b.Decls,
		}
	}

	plugins := result.Plugins
	if plugins == nil {
		plugins = []string{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildReport{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Stats:     result.Stats,
		Rules:     rules,
		Warnings:  warningStrings(result.Warnings),
		Plugins:   plugins,
	})
}

func warningStrings(warnings []ScanWarning) []string {
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}

package tailgen

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// LintOptions holds linting configuration
type LintOptions struct {
	Build BuildOptions

	// golangci-style configuration
	MaxIssuesPerLinter int  // 0 = unlimited (default)
	MaxSameIssues      int  // 0 = unlimited (default)
	PrintIssuedLines   bool // Show source lines with issues
	PrintLinterName    bool // Show (tailgen) suffix
	UseColors          bool // Force color output (default: auto-detect)
}

// LintResult contains linting analysis results
type LintResult struct {
	Issues         []Issue       // All issues found
	Warnings       []ScanWarning // Scan problems
	FilesScanned   int
	ClassesFound   int     // Tokens found in class attributes
	Resolved       int     // Tokens that produce a rule
	Unrecognized   int     // Tokens no grammar claims (custom classes)
	ResolvedRate   float64 // Resolved / (ClassesFound - Unrecognized), in percent
	TruncatedCount int     // Issues removed due to limits
	TopMisses      []Miss  // Most frequent near misses
}

// Miss is a near-miss utility and how often it occurs
type Miss struct {
	Token       string
	Occurrences int
	Suggestion  string // empty when nothing is close
}

// classAttrPatterns find class lists in markup and templates. The first
// capture group holds the class list.
var classAttrPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bclass(?:Name)?\s*=\s*"([^"]*)"`),
	regexp.MustCompile(`\bclass(?:Name)?\s*=\s*'([^']*)'`),
	regexp.MustCompile(`\bclass(?:Name)?\s*=\s*\{\s*"([^"]*)"`),
	regexp.MustCompile("\\bclass(?:Name)?\\s*=\\s*\\{\\s*`([^`]*)`"),
	regexp.MustCompile(`templ\.KV\(\s*"([^"]*)"`),
	regexp.MustCompile(`\b(?:clsx|cn|classNames)\(\s*"([^"]*)"`),
}

// Lint scans content files for class attributes and reports tokens whose
// namespace belongs to a utility grammar but which do not resolve, such as
// "brightness-999" or "hovr:p-4". Builds are unaffected.
func Lint(ctx context.Context, cfg *Config, opts LintOptions) (*LintResult, error) {
	b, err := NewBuilder(cfg, opts.Build)
	if err != nil {
		return nil, err
	}

	files, warnings, err := b.scanner.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	result := &LintResult{Warnings: warnings}
	misses := make(map[string]int)
	suggestions := make(map[string]string)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := b.scanner.source.ReadFile(ctx, path)
		if err != nil {
			result.Warnings = append(result.Warnings, ScanWarning{File: path, Err: err})
			continue
		}
		result.FilesScanned++

		for _, ref := range extractClassRefs(data) {
			result.ClassesFound++

			exp := b.gen.Explain(b.theme, ref.Token)
			switch {
			case exp.Resolved:
				result.Resolved++
				continue
			case exp.BadVariant != "" && exp.Recognized:
				result.Issues = append(result.Issues, Issue{
					FromLinter:  LinterName,
					Text:        fmt.Sprintf(IssueUnknownVariant, exp.BadVariant, ref.Token),
					Severity:    SeverityWarning,
					SourceLines: []string{ref.LineText},
					Pos:         IssuePos{Filename: path, Line: ref.Line, Column: ref.Column},
				})
			case exp.Recognized:
				issue := Issue{
					FromLinter:  LinterName,
					Text:        fmt.Sprintf(IssueUnknownValue, ref.Token, strings.Join(exp.Grammars, ", ")),
					Severity:    SeverityError,
					SourceLines: []string{ref.LineText},
					Pos:         IssuePos{Filename: path, Line: ref.Line, Column: ref.Column},
				}
				if s, ok := b.gen.Suggest(b.theme, ref.Token); ok {
					issue.Replacement = &Replacement{NewText: s, InlineLength: len(ref.Token)}
					issue.Text += fmt.Sprintf(" (did you mean %q?)", s)
					suggestions[ref.Token] = s
				}
				result.Issues = append(result.Issues, issue)
				misses[ref.Token]++
			default:
				result.Unrecognized++
			}
		}
	}

	if known := result.ClassesFound - result.Unrecognized; known > 0 {
		result.ResolvedRate = float64(result.Resolved) / float64(known) * 100
	}

	result.TopMisses = sortByFrequency(misses, suggestions)

	if opts.MaxIssuesPerLinter > 0 || opts.MaxSameIssues > 0 {
		result.Issues, result.TruncatedCount = limitIssues(result.Issues, opts)
	}

	return result, nil
}

// classRef is a token found inside a class attribute
type classRef struct {
	Token    string
	Line     int
	Column   int
	LineText string
}

// extractClassRefs finds the tokens of every class attribute in data.
func extractClassRefs(data []byte) []classRef {
	var refs []classRef
	seen := make(map[[2]int]bool)

	line := 1
	for len(data) > 0 {
		end := bytes.IndexByte(data, '\n')
		current := data
		if end >= 0 {
			current = data[:end]
		}

		for _, re := range classAttrPatterns {
			for _, m := range re.FindAllSubmatchIndex(current, -1) {
				if len(m) < 4 || m[2] < 0 {
					continue
				}
				for _, c := range ExtractPositions(current[m[2]:m[3]]) {
					col := m[2] + c.Column
					if seen[[2]int{line, col}] {
						continue
					}
					seen[[2]int{line, col}] = true
					refs = append(refs, classRef{
						Token:    c.Token,
						Line:     line,
						Column:   col,
						LineText: string(current),
					})
				}
			}
		}

		if end < 0 {
			break
		}
		data = data[end+1:]
		line++
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Line != refs[j].Line {
			return refs[i].Line < refs[j].Line
		}
		return refs[i].Column < refs[j].Column
	})
	return refs
}

// sortByFrequency orders misses by occurrence, then token
func sortByFrequency(freq map[string]int, suggestions map[string]string) []Miss {
	misses := make([]Miss, 0, len(freq))
	for token, n := range freq {
		misses = append(misses, Miss{Token: token, Occurrences: n, Suggestion: suggestions[token]})
	}
	sort.Slice(misses, func(i, j int) bool {
		if misses[i].Occurrences != misses[j].Occurrences {
			return misses[i].Occurrences > misses[j].Occurrences
		}
		return misses[i].Token < misses[j].Token
	})
	return misses
}

// limitIssues applies max-issues-per-linter and max-same-issues constraints
func limitIssues(issues []Issue, opts LintOptions) ([]Issue, int) {
	originalCount := len(issues)

	// Apply max-same-issues (deduplication by message text)
	if opts.MaxSameIssues > 0 {
		issues = deduplicateSameIssues(issues, opts.MaxSameIssues)
	}

	// Apply max-issues-per-linter
	if opts.MaxIssuesPerLinter > 0 && len(issues) > opts.MaxIssuesPerLinter {
		issues = issues[:opts.MaxIssuesPerLinter]
	}

	return issues, originalCount - len(issues)
}

// deduplicateSameIssues limits how many times the same message appears
func deduplicateSameIssues(issues []Issue, maxSame int) []Issue {
	messageCounts := make(map[string]int)
	var filtered []Issue

	for _, issue := range issues {
		if messageCounts[issue.Text] < maxSame {
			filtered = append(filtered, issue)
			messageCounts[issue.Text]++
		}
	}

	return filtered
}

package tailgen

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lintPage = `<div class="p-4 brightness-25">
  <span class="brightness-999 wat:p-4 custom-card">text brightness-999</span>
<p class="p-44">
`

func lint(t *testing.T, fsys fstest.MapFS, opts LintOptions) *LintResult {
	t.Helper()
	opts.Build.Source = NewFSSource(fsys)
	result, err := Lint(context.Background(), testConfig(t, brightnessOverlay, "**/*.html"), opts)
	require.NoError(t, err)
	return result
}

func TestLintReportsNearMisses(t *testing.T) {
	result := lint(t, fstest.MapFS{"src/index.html": file(lintPage)}, LintOptions{})

	require.Len(t, result.Issues, 3)

	miss := result.Issues[0]
	assert.Equal(t, SeverityError, miss.Severity)
	assert.Equal(t, LinterName, miss.FromLinter)
	assert.Equal(t, `utility "brightness-999" has no matching value in brightness`, miss.Text)
	assert.Equal(t, IssuePos{Filename: "src/index.html", Line: 2, Column: 16}, miss.Pos)
	assert.Equal(t, []string{`  <span class="brightness-999 wat:p-4 custom-card">text brightness-999</span>`}, miss.SourceLines)
	assert.Nil(t, miss.Replacement)

	variant := result.Issues[1]
	assert.Equal(t, SeverityWarning, variant.Severity)
	assert.Equal(t, `unknown variant "wat" in "wat:p-4"`, variant.Text)
	assert.Equal(t, 31, variant.Pos.Column)

	suggested := result.Issues[2]
	assert.Equal(t, IssuePos{Filename: "src/index.html", Line: 3, Column: 11}, suggested.Pos)
	assert.Contains(t, suggested.Text, `(did you mean "p-4"?)`)
	require.NotNil(t, suggested.Replacement)
	assert.Equal(t, "p-4", suggested.Replacement.NewText)
	assert.Equal(t, 4, suggested.Replacement.InlineLength)
}

func TestLintStatistics(t *testing.T) {
	result := lint(t, fstest.MapFS{"src/index.html": file(lintPage)}, LintOptions{})

	assert.Equal(t, 1, result.FilesScanned)
	assert.Equal(t, 6, result.ClassesFound)
	assert.Equal(t, 2, result.Resolved)
	assert.Equal(t, 1, result.Unrecognized)
	assert.InDelta(t, 40.0, result.ResolvedRate, 0.001)

	assert.Equal(t, []Miss{
		{Token: "brightness-999", Occurrences: 1},
		{Token: "p-44", Occurrences: 1, Suggestion: "p-4"},
	}, result.TopMisses)
}

func TestLintIgnoresTextOutsideClassAttributes(t *testing.T) {
	result := lint(t, fstest.MapFS{
		"a.html": file("<p>brightness-999 and p-44 in prose</p>"),
	}, LintOptions{})

	assert.Empty(t, result.Issues)
	assert.Zero(t, result.ClassesFound)
}

func TestLintAttributeForms(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"double quotes", `<a class="brightness-999">`},
		{"single quotes", `<a class='brightness-999'>`},
		{"jsx string", `<a className={"brightness-999"}>`},
		{"jsx template", "<a className={`brightness-999`}>"},
		{"templ KV", `templ.KV("brightness-999", active)`},
		{"clsx", `clsx("brightness-999", other)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := lint(t, fstest.MapFS{"a.html": file(tt.line)}, LintOptions{})
			require.Len(t, result.Issues, 1)
			assert.Contains(t, result.Issues[0].Text, `"brightness-999"`)
		})
	}
}

func TestLintLimits(t *testing.T) {
	fsys := fstest.MapFS{}
	for i := range 3 {
		fsys[fmt.Sprintf("page%d.html", i)] = file(`<p class="brightness-999 mt-99">`)
	}

	tests := []struct {
		name      string
		opts      LintOptions
		issues    int
		truncated int
	}{
		{"unlimited", LintOptions{}, 6, 0},
		{"max same issues", LintOptions{MaxSameIssues: 1}, 2, 4},
		{"max per linter", LintOptions{MaxIssuesPerLinter: 4}, 4, 2},
		{"both", LintOptions{MaxSameIssues: 2, MaxIssuesPerLinter: 3}, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := lint(t, fsys, tt.opts)
			assert.Len(t, result.Issues, tt.issues)
			assert.Equal(t, tt.truncated, result.TruncatedCount)
		})
	}
}

func TestExtractClassRefs(t *testing.T) {
	data := []byte("<div class=\"p-4  mt-2\" className='flex'>\n\t<b class=\"block\">")

	refs := extractClassRefs(data)
	require.Len(t, refs, 4)

	assert.Equal(t, classRef{Token: "p-4", Line: 1, Column: 13, LineText: `<div class="p-4  mt-2" className='flex'>`}, refs[0])
	assert.Equal(t, "mt-2", refs[1].Token)
	assert.Equal(t, 18, refs[1].Column)
	assert.Equal(t, "flex", refs[2].Token)
	assert.Equal(t, 35, refs[2].Column)
	assert.Equal(t, classRef{Token: "block", Line: 2, Column: 12, LineText: "\t<b class=\"block\">"}, refs[3])
}

func TestSortByFrequency(t *testing.T) {
	got := sortByFrequency(
		map[string]int{"p-44": 1, "mt-99": 3, "brightness-999": 3},
		map[string]string{"p-44": "p-4"},
	)

	assert.Equal(t, []Miss{
		{Token: "brightness-999", Occurrences: 3},
		{Token: "mt-99", Occurrences: 3},
		{Token: "p-44", Occurrences: 1, Suggestion: "p-4"},
	}, got)
}

func TestLintHonorsGitignore(t *testing.T) {
	fsys := fstest.MapFS{
		".gitignore": file("gen/\n"),
		"a.html":     file(`<p class="p-4">`),
		"gen/b.html": file(`<p class="brightness-999">`),
		"gen/c.html": file(`<p class="p-44">`),
	}

	result := lint(t, fsys, LintOptions{Build: BuildOptions{Scan: ScanOptions{UseGitignore: true}}})
	assert.Equal(t, 1, result.FilesScanned)
	assert.Empty(t, result.Issues)

	result = lint(t, fsys, LintOptions{})
	assert.Equal(t, 3, result.FilesScanned)
	assert.Len(t, result.Issues, 2)
}

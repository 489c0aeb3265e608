package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/tailgen"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	resetKoanf()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	settingsPath := filepath.Join(dir, ".tailgen.yaml")
	settingsContent := `
verbose: true
config: site/tailgen.config.toml

build:
  output: public/app.css
  minify: true

scan:
  concurrency: 4
  max-read-errors: 10
  gitignore: false

lint:
  strict: true
  output-format: full
  max-same-issues: 3

watch:
  serve: ":4410"
  debounce: 250ms
`
	require.NoError(t, os.WriteFile(settingsPath, []byte(settingsContent), 0644))
	require.NoError(t, loadConfigFromPath(settingsPath))

	assert.True(t, k.Bool("verbose"))
	assert.Equal(t, "site/tailgen.config.toml", k.String("config"))
	assert.Equal(t, "public/app.css", outputPath())
	assert.Equal(t, tailgen.BuildOptions{
		Minify: true,
		Scan:   tailgen.ScanOptions{Concurrency: 4, MaxReadErrors: 10, UseGitignore: false},
	}, buildOptions())
	assert.True(t, k.Bool("lint.strict"))
	assert.Equal(t, 3, buildLintOptions().MaxSameIssues)
	assert.Equal(t, ":4410", getStringWithFallback("serve", "watch.serve", ""))
	assert.Equal(t, 250*time.Millisecond, getDurationWithFallback("debounce", "watch.debounce", time.Second))
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	// Point to non-existent settings, should not error
	require.NoError(t, loadConfigFromPath("/nonexistent/.tailgen.yaml"))

	assert.Equal(t, "dist/tailgen.css", outputPath())
	assert.Equal(t, tailgen.BuildOptions{Scan: tailgen.ScanOptions{UseGitignore: true}}, buildOptions())
	assert.Equal(t, tailgen.DefaultDebounce, getDurationWithFallback("debounce", "watch.debounce", tailgen.DefaultDebounce))
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	settingsPath := filepath.Join(dir, ".tailgen.yaml")
	settingsContent := `
build:
  output: from-file.css
scan:
  max-read-errors: 1
`
	require.NoError(t, os.WriteFile(settingsPath, []byte(settingsContent), 0644))

	// Set env vars that should override the settings file
	t.Setenv("TAILGEN_BUILD_OUTPUT", "from-env.css")
	t.Setenv("TAILGEN_SCAN_MAX_READ_ERRORS", "7")
	t.Setenv("TAILGEN_QUIET", "true")

	require.NoError(t, loadConfigFromPath(settingsPath))

	assert.Equal(t, "from-env.css", outputPath())
	assert.Equal(t, 7, buildOptions().Scan.MaxReadErrors)
	assert.True(t, getBoolWithFallback("quiet", "quiet", false))
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"TAILGEN_VERBOSE", "verbose"},
		{"TAILGEN_BUILD_OUTPUT", "build.output"},
		{"TAILGEN_SCAN_MAX_READ_ERRORS", "scan.max-read-errors"},
		{"TAILGEN_LINT_OUTPUT_FORMAT", "lint.output-format"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, envKey(tt.env), tt.env)
	}
}

func TestBuildLintOptions_Defaults(t *testing.T) {
	resetKoanf()

	opts := buildLintOptions()
	assert.Equal(t, 0, opts.MaxIssuesPerLinter)
	assert.Equal(t, 0, opts.MaxSameIssues)
	assert.True(t, opts.PrintIssuedLines)
	assert.True(t, opts.PrintLinterName)
	assert.False(t, opts.UseColors)
	assert.True(t, opts.Build.Scan.UseGitignore)
}

func TestFlagsOverrideSettingsFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeProject(t, "p-4")
	require.NoError(t, os.WriteFile(".tailgen.yaml", []byte("build:\n  output: from-file.css\n  minify: true\n"), 0644))

	_, err := execute(t, "build", "--output", "from-flag.css", "--quiet")
	require.NoError(t, err)

	assert.NoFileExists(t, "from-file.css")
	data, err := os.ReadFile("from-flag.css")
	require.NoError(t, err)
	assert.Equal(t, ".p-4{padding:1rem}\n", string(data), "minify from the settings file still applies")
}

func writeProject(t *testing.T, classes string) {
	t.Helper()
	config := "content:\n  - \"src/**/*.html\"\ntheme:\n  extend:\n    brightness:\n      25: \".25\"\n"
	require.NoError(t, os.WriteFile("tailgen.config.yaml", []byte(config), 0644))
	require.NoError(t, os.MkdirAll("src", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("src", "index.html"), []byte(`<div class="`+classes+`"></div>`), 0644))
}

func TestBuildCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	writeProject(t, "p-4 brightness-25")

	out, err := execute(t, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote dist/tailgen.css")
	assert.Contains(t, out, "Rules generated: 2")

	data, err := os.ReadFile(filepath.Join("dist", "tailgen.css"))
	require.NoError(t, err)
	assert.Equal(t, ".p-4 {\n  padding: 1rem;\n}\n\n.brightness-25 {\n  filter: brightness(.25);\n}\n", string(data))

	out, err = execute(t)
	require.NoError(t, err, "root command defaults to build")
	assert.Contains(t, out, "Unchanged dist/tailgen.css")
}

func TestBuildCommandReport(t *testing.T) {
	t.Chdir(t.TempDir())
	writeProject(t, "p-4")

	_, err := execute(t, "build", "--report", "report.json", "--quiet")
	require.NoError(t, err)

	data, err := os.ReadFile("report.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"selector": ".p-4"`)
}

func TestBuildCommandWithoutConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config file found")
}

func TestBuildCommandConfigError(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("custom.yaml", []byte("content: nope\n"), 0644))

	_, err := execute(t, "build", "--config", "custom.yaml")
	var cerr *tailgen.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "content", cerr.Field)
	assert.NoFileExists(t, filepath.Join("dist", "tailgen.css"))
}

func TestCheckCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	writeProject(t, "p-4")

	out, err := execute(t, "check")
	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 1, exit.code)
	assert.Contains(t, out, "does not exist")

	_, err = execute(t, "build", "--quiet")
	require.NoError(t, err)

	out, err = execute(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date (1 rules)")

	writeProject(t, "p-4 mt-2")
	out, err = execute(t, "check")
	require.True(t, errors.As(err, &exit))
	assert.Contains(t, out, "is out of date")
	assert.Contains(t, out, "+ .mt-2")
}

func TestLintCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	writeProject(t, "p-4 brightness-999")

	out, err := execute(t, "lint")
	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Contains(t, out, `src/index.html:1:17: utility "brightness-999" has no matching value in brightness (tailgen)`)

	writeProject(t, "p-4 wat:p-4")
	_, err = execute(t, "lint")
	require.NoError(t, err, "warnings pass the soft gate")

	_, err = execute(t, "lint", "--strict")
	require.True(t, errors.As(err, &exit))
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "init")
	require.NoError(t, err)

	cfg, err := tailgen.LoadConfig("tailgen.config.yaml")
	require.NoError(t, err)
	assert.Len(t, cfg.Content, 2)
	assert.NotEmpty(t, cfg.Extend)
}

func TestInitCommand_TOML(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "init", "--format", "toml")
	require.NoError(t, err)

	toml, err := tailgen.LoadConfig("tailgen.config.toml")
	require.NoError(t, err)

	_, err = execute(t, "init")
	require.NoError(t, err)
	yaml, err := tailgen.LoadConfig("tailgen.config.yaml")
	require.NoError(t, err)

	assert.Equal(t, yaml.Content, toml.Content)
	assert.Equal(t, yaml.Extend, toml.Extend)
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	t.Chdir(t.TempDir())

	// Create existing file
	require.NoError(t, os.WriteFile("tailgen.config.yaml", []byte("existing"), 0644))

	_, err := execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	t.Chdir(t.TempDir())

	// Create existing file
	require.NoError(t, os.WriteFile("tailgen.config.yaml", []byte("existing"), 0644))

	_, err := execute(t, "init", "--force")
	require.NoError(t, err)

	data, err := os.ReadFile("tailgen.config.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "content:")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tailgen dev\n", out)
}

func TestGetStringWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, "default", getStringWithFallback("flag-key", "config.key", "default"))
}

func TestGetBoolWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.False(t, getBoolWithFallback("flag-key", "config.key", false))
	assert.True(t, getBoolWithFallback("flag-key", "config.key", true))
}

func TestGetIntWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, 42, getIntWithFallback("flag-key", "config.key", 42))
}

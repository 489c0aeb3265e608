package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/tailgen"
)

const defaultSettingsFile = ".tailgen.yaml"

var k = koanf.New(".")

// loadConfig loads CLI settings with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve settings file path from flag
	settingsPath, _ := cmd.Flags().GetString("settings")
	if settingsPath == "" {
		settingsPath = defaultSettingsFile
	}

	// Load settings file and env vars
	if err := loadConfigFromPath(settingsPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set)
	// Unset flags are skipped so their defaults never shadow section keys
	// from the file.
	fs := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(fs, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads settings from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(settingsPath string) error {
	// 1. Settings file (lowest precedence among providers)
	if _, err := os.Stat(settingsPath); err == nil {
		if err := k.Load(file.Provider(settingsPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading settings file %s: %w", settingsPath, err)
		}
	}

	// 2. Environment variables (TAILGEN_* prefix)
	if err := k.Load(env.Provider("TAILGEN_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a settings key. The first segment
// names the section, the rest is the hyphenated setting:
//
//	TAILGEN_BUILD_OUTPUT         -> build.output
//	TAILGEN_SCAN_MAX_READ_ERRORS -> scan.max-read-errors
//	TAILGEN_VERBOSE              -> verbose
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "TAILGEN_"))
	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + strings.ReplaceAll(rest, "_", "-")
}

// buildOptions constructs the library's BuildOptions from koanf state.
func buildOptions() tailgen.BuildOptions {
	return tailgen.BuildOptions{
		Minify: getBoolWithFallback("minify", "build.minify", false),
		Scan:   scanOptions(),
	}
}

func scanOptions() tailgen.ScanOptions {
	return tailgen.ScanOptions{
		Concurrency:   getIntWithFallback("concurrency", "scan.concurrency", 0),
		MaxReadErrors: getIntWithFallback("max-read-errors", "scan.max-read-errors", 0),
		UseGitignore:  getBoolWithFallback("gitignore", "scan.gitignore", true),
	}
}

// buildLintOptions constructs the library's LintOptions from koanf state.
func buildLintOptions() tailgen.LintOptions {
	return tailgen.LintOptions{
		Build:              tailgen.BuildOptions{Scan: scanOptions()},
		MaxIssuesPerLinter: getIntWithFallback("max-issues-per-linter", "lint.max-issues-per-linter", 0),
		MaxSameIssues:      getIntWithFallback("max-same-issues", "lint.max-same-issues", 0),
		PrintIssuedLines:   getBoolWithFallback("print-lines", "lint.print-lines", true),
		PrintLinterName:    getBoolWithFallback("print-linter-name", "lint.print-linter-name", true),
		UseColors:          getBoolWithFallback("color", "color", false),
	}
}

// outputPath is where build and watch write the stylesheet.
func outputPath() string {
	return getStringWithFallback("output", "build.output", "dist/tailgen.css")
}

// loadProjectConfig reads the project config named by the config setting, or
// the first default config file in the working directory.
func loadProjectConfig() (*tailgen.Config, error) {
	path := getStringWithFallback("config", "config", "")
	if path == "" {
		found, ok := tailgen.FindConfig(".")
		if !ok {
			return nil, fmt.Errorf("no config file found (tried %s); run `tailgen init`",
				strings.Join(tailgen.DefaultConfigFiles, ", "))
		}
		path = found
	}
	return tailgen.LoadConfig(path)
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if k.Exists(flagKey) {
		return k.Duration(flagKey)
	}
	if k.Exists(configKey) {
		return k.Duration(configKey)
	}
	return defaultVal
}

package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tailgen",
	Short: "Utility-first CSS generator",
	Long: `Scan content files for utility classes and emit only the CSS they use.
Utilities resolve against a theme of named scales, extended in tailgen.config.yaml.`,
	// Default behavior: run build when no subcommand is given.
	// We must call loadConfig here because PreRunE of buildCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Print build statistics")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.StringP("config", "c", "", "Project config file (default: tailgen.config.{yaml,yml,toml})")
	pf.String("settings", defaultSettingsFile, "CLI settings file")

	// Scan settings apply to every command that reads content
	pf.Int("concurrency", 0, "Concurrent file reads (0 = GOMAXPROCS)")
	pf.Int("max-read-errors", 0, "Abort after this many unreadable files (0 = never)")
	pf.Bool("gitignore", true, "Skip files matched by .gitignore")

	// build flags are accepted at the root because it defaults to build
	addBuildFlags(rootCmd)

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

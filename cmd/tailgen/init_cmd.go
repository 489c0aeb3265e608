package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/tailgen"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default tailgen.config.yaml",
	Long: `Create a project config in the current directory with sensible defaults.
Use --format toml for tailgen.config.toml.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		format, _ := cmd.Flags().GetString("format")

		var name, content string
		switch format {
		case tailgen.FormatYAML:
			name, content = "tailgen.config.yaml", defaultYAMLConfig
		case tailgen.FormatTOML:
			name, content = "tailgen.config.toml", defaultTOMLConfig
		default:
			return fmt.Errorf("unsupported format %q (want yaml or toml)", format)
		}

		if _, err := os.Stat(name); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", name)
		}

		if err := os.WriteFile(name, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", name)
		return nil
	},
}

const defaultYAMLConfig = `# tailgen project configuration
# Docs: https://github.com/yacobolo/tailgen

# Files scanned for class names. Prefix with ! to exclude.
content:
  - "src/**/*.{html,templ,go,js,jsx,tsx}"
  - "!src/vendor/**"

# Extra scale entries, appended after the built-in ones.
# A key that already exists replaces the built-in value.
theme:
  extend:
    brightness:
      25: ".25"
      175: "1.75"
    spacing:
      "13": "3.25rem"

# Plugin names are recorded in the build report, not executed.
plugins: []
`

const defaultTOMLConfig = `# tailgen project configuration
# Docs: https://github.com/yacobolo/tailgen

# Files scanned for class names. Prefix with ! to exclude.
content = [
  "src/**/*.{html,templ,go,js,jsx,tsx}",
  "!src/vendor/**",
]

# Plugin names are recorded in the build report, not executed.
plugins = []

# Extra scale entries, appended after the built-in ones.
# A key that already exists replaces the built-in value.
[theme.extend.brightness]
25 = ".25"
175 = "1.75"

[theme.extend.spacing]
13 = "3.25rem"
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
	initCmd.Flags().String("format", tailgen.FormatYAML, "Config format: yaml|toml")
}

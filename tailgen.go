// Package tailgen generates utility-first CSS from the classes a project
// actually uses.
//
// A build resolves the configured theme, scans content files for candidate
// class tokens, resolves each token against an ordered registry of utility
// grammars and renders only the matching rules, in a deterministic order.
//
// # Configuration
//
// A project config lists content globs and theme extensions:
//
//	content:
//	  - "src/**/*.{html,templ}"
//	  - "!src/vendor/**"
//	theme:
//	  extend:
//	    brightness:
//	      25: ".25"
//	      175: "1.75"
//
// Load it and build:
//
//	cfg, err := tailgen.LoadConfig("tailgen.config.yaml")
//	result, err := tailgen.Build(ctx, cfg, tailgen.BuildOptions{})
//	_, err = tailgen.WriteFile("dist/tailgen.css", result.CSS)
//
// # Incremental builds
//
// A Builder keeps the per-file token sets of its last pass. Rebuild rescans
// only changed files and returns the selector diff; Watch drives it from
// file system events.
//
// # Linting
//
// Lint reports class tokens that look like utilities but do not resolve,
// such as "brightness-999", in golangci-lint format.
//
// # CLI Tool
//
//	go install github.com/yacobolo/tailgen/cmd/tailgen@latest
package tailgen

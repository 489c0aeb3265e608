package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/yacobolo/tailgen"
	"github.com/yacobolo/tailgen/internal/css"
	"github.com/yacobolo/tailgen/internal/devserver"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the stylesheet whenever content changes",
	Long: `Build once, then watch the base directories of the content globs and rebuild
incrementally. With --serve, a dev server pushes every change to connected
browsers over WebSocket.

Add to your page:
  <link rel="stylesheet" href="http://localhost:4410/tailgen.css">
  <script src="http://localhost:4410/tailgen.js"></script>`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringP("output", "o", "dist/tailgen.css", "Output stylesheet path")
	f.Bool("minify", false, "Write compact CSS")
	f.String("serve", "", "Serve the stylesheet and live updates on this address, e.g. :4410")
	f.Duration("debounce", tailgen.DefaultDebounce, "Wait this long for file events to settle")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	b, err := tailgen.NewBuilder(cfg, buildOptions())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	useColors := tailgen.ShouldUseColors(getBoolWithFallback("color", "color", false))
	quiet := getBoolWithFallback("quiet", "quiet", false)
	output := outputPath()

	var srv *devserver.Server
	serveErr := make(chan error, 1)
	if addr := getStringWithFallback("serve", "watch.serve", ""); addr != "" {
		srv = devserver.New()
		httpSrv := &http.Server{Addr: addr, Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}

		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
				cancel()
			}
		}()
		defer func() {
			srv.Close()
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			httpSrv.Shutdown(shutdownCtx)
		}()

		if !quiet {
			fmt.Fprintf(stdout, "Serving %s and live updates on %s\n", devserver.StylesheetPath, addr)
		}
	}

	err = tailgen.Watch(ctx, b, tailgen.WatchOptions{
		Root:     cfg.Root,
		Debounce: getDurationWithFallback("debounce", "watch.debounce", tailgen.DefaultDebounce),
		OnBuild: func(result *tailgen.Result, diff css.Diff) {
			written, err := tailgen.WriteFile(output, result.CSS)
			if err != nil {
				fmt.Fprintln(stderr, tailgen.RenderStyle(tailgen.StyleRed, "Error:", useColors), err)
				return
			}
			if srv != nil {
				srv.Update(result.CSS, diff)
			}
			if quiet {
				return
			}

			verbose := tailgen.NewVerboseReporter(stdout, useColors)
			if written {
				fmt.Fprintf(stdout, "%s %s (%d rules, %s)\n",
					tailgen.RenderStyle(tailgen.StyleGreen, "Wrote", useColors), output,
					result.Stats.Rules, result.Stats.Duration.Round(time.Microsecond))
			}
			if getBoolWithFallback("verbose", "verbose", false) {
				verbose.PrintDiff(diff)
			}
			tailgen.NewVerboseReporter(stderr, useColors).PrintWarnings(result.Warnings)
		},
		OnError: func(err error) {
			// a failed pass leaves the previous stylesheet in place
			fmt.Fprintln(stderr, tailgen.RenderStyle(tailgen.StyleRed, "Error:", useColors), err)
		},
	})

	select {
	case serr := <-serveErr:
		return fmt.Errorf("dev server: %w", serr)
	default:
	}
	return err
}

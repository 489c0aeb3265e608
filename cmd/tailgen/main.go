// Package main provides the tailgen CLI for building and checking
// utility CSS.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yacobolo/tailgen"
)

// exitError carries a non-zero exit code for failures already reported to
// the user, such as lint issues or a stale stylesheet.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, tailgen.RenderStyle(tailgen.StyleRed, "Error:", tailgen.ShouldUseColors(false)), err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/feedfort/internal/cmd"
	"github.com/felixgeelhaar/feedfort/internal/exitcode"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nOperação cancelada")
			stop()
			exitcode.Exit(exitcode.Interrupted)
		}

		cmd.PrintError(os.Stderr, err)
		stop()
		exitcode.ExitWithError(err)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"marketfetch/internal/cli"
)

func main() {
	// Cancel in-flight fetches on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

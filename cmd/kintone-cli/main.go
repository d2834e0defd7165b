package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newCLI()
	if err := c.rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("✗"), err)
		stop()
		os.Exit(1)
	}
}

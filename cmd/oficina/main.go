// Package main is the entry point for the oficina binary.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/opencode-ai/oficina/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

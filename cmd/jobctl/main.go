package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pdfextract-backend/internal/cli"
	"pdfextract-backend/internal/shared/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.BuildCLI().ExecuteContext(ctx)
	telemetry.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobctl: %v\n", err)
		os.Exit(1)
	}
}

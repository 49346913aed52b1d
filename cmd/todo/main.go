package main

import (
	"context"
	"fmt"
	"os"

	"tasklist/app/cli"
	"tasklist/app/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stderr, cfg.Server.LogLevel)
	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		logger.Error("failed to start client", "err", err)
		os.Exit(1)
	}

	if err := cli.NewRootCommand(app).Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"tasklist/app/config"
	"tasklist/app/controllers"
	"tasklist/app/platform"
	"tasklist/app/routes"
	"tasklist/app/services"
	"tasklist/app/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	logger := config.NewLogger(os.Stderr, cfg.Server.LogLevel)
	ctx := context.Background()

	// Initialize the task store
	taskStore, err := config.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open task store", "err", err)
		os.Exit(1)
	}

	if err := serve(ctx, cfg, taskStore, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// serve hosts the API over taskStore. Under Lambda it never returns and the
// store lives as long as the process; the local server closes the store
// once it has shut down.
func serve(ctx context.Context, cfg *config.Config, taskStore store.TaskStore, logger *slog.Logger) error {
	taskService := services.NewTaskService(taskStore, logger)
	taskController := controllers.NewTaskController(taskService, logger)
	handler := routes.NewHandler(taskController, logger, cfg.Server.Development)

	if !cfg.Server.Development {
		platform.StartLambda(handler)
		return nil
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	err := platform.ListenAndServe(ctx, addr, handler, logger)
	if closeErr := taskStore.Close(context.Background()); closeErr != nil {
		logger.Error("failed to close task store", "err", closeErr)
		if err == nil {
			err = closeErr
		}
	}
	return err
}

package config

import (
	"context"
	"fmt"
	"log/slog"

	"tasklist/app/store"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// OpenStore creates the task store selected by cfg.Backend and prepares its
// schema where the backend has one.
func OpenStore(ctx context.Context, cfg StoreConfig, logger *slog.Logger) (store.TaskStore, error) {
	logger = logger.With("store", cfg.Backend)

	switch cfg.Backend {
	case store.BackendDynamo:
		awsCfg, err := InitAWS(ctx, cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		return store.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.Table, logger), nil

	case store.BackendNeo4j:
		driver, err := InitNeo4j(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize neo4j: %w", err)
		}
		if err := driver.VerifyConnectivity(ctx); err != nil {
			driver.Close(ctx)
			return nil, fmt.Errorf("failed to reach neo4j: %w", err)
		}
		s := store.NewNeo4jStore(driver, logger)
		if err := s.EnsureConstraint(ctx); err != nil {
			s.Close(ctx)
			return nil, fmt.Errorf("failed to create task constraint: %w", err)
		}
		return s, nil

	case store.BackendPostgres:
		pool, err := InitPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s := store.NewPostgresStore(pool, logger)
		if err := s.EnsureTable(ctx); err != nil {
			s.Close(ctx)
			return nil, fmt.Errorf("failed to create tasks table: %w", err)
		}
		return s, nil

	case store.BackendSQLite:
		s, err := store.NewSQLiteStore(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite: %w", err)
		}
		return s, nil
	}

	return nil, &ConfigError{Field: "store.backend", Message: fmt.Sprintf("unknown task store %q", cfg.Backend)}
}

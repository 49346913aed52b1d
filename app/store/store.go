// Package store holds the task persistence adapters. Every backend exposes the
// same scan/put/update/delete-by-key contract; none of them orders results.
package store

import (
	"context"

	"tasklist/app/models"

	"github.com/google/uuid"
)

// Backend names accepted by TASK_STORE.
const (
	BackendDynamo   = "dynamodb"
	BackendNeo4j    = "neo4j"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// TaskStore is the key-value contract the Task API delegates to.
type TaskStore interface {
	// Scan returns every stored task.
	Scan(ctx context.Context) ([]models.Task, error)
	// Put stores a new task under a freshly generated id and returns it.
	Put(ctx context.Context, task models.Task) (models.Task, error)
	// Update replaces name and completed of an existing task. It never
	// creates a record; a missing id yields Affected == 0.
	Update(ctx context.Context, task models.Task) (models.Ack, error)
	// Delete removes the task with the given id. A missing id yields Affected == 0.
	Delete(ctx context.Context, id string) (models.Ack, error)
	Close(ctx context.Context) error
}

func newID() string {
	return uuid.New().String()
}

package store

import (
	"context"
	"fmt"
	"log/slog"

	"tasklist/app/models"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jStore keeps each task as a (:Task) node.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
	logger *slog.Logger
}

// NewNeo4jStore creates a new instance of Neo4jStore.
func NewNeo4jStore(driver neo4j.DriverWithContext, logger *slog.Logger) *Neo4jStore {
	return &Neo4jStore{driver: driver, logger: logger}
}

// EnsureConstraint makes Task.id unique at the database level.
func (s *Neo4jStore) EnsureConstraint(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"CREATE CONSTRAINT task_id IF NOT EXISTS FOR (t:Task) REQUIRE t.id IS UNIQUE", nil)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	return err
}

// Scan retrieves all tasks from the database.
func (s *Neo4jStore) Scan(ctx context.Context) ([]models.Task, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task) RETURN t.id AS id, t.name AS name, t.completed AS completed",
			nil,
		)
		if err != nil {
			return nil, err
		}

		tasks := []models.Task{}
		for res.Next(ctx) {
			task, err := taskFromRecord(res.Record())
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}

	tasks := result.([]models.Task)
	s.logger.Debug("neo4j scan", "count", len(tasks))
	return tasks, nil
}

// Put creates a new Task node under a generated id.
func (s *Neo4jStore) Put(ctx context.Context, task models.Task) (models.Task, error) {
	task.ID = newID()

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"CREATE (t:Task {id: $id, name: $name, completed: $completed})",
			map[string]any{
				"id":        task.ID,
				"name":      task.Name,
				"completed": task.Completed,
			},
		)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Update sets name and completed on a matching node. MATCH never creates.
func (s *Neo4jStore) Update(ctx context.Context, task models.Task) (models.Ack, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	matched, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) "+
				"SET t.name = $name, t.completed = $completed "+
				"RETURN t.id AS id",
			map[string]any{
				"id":        task.ID,
				"name":      task.Name,
				"completed": task.Completed,
			},
		)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return len(records), nil
	})
	if err != nil {
		return models.Ack{}, err
	}
	return models.Ack{ID: task.ID, Affected: matched.(int)}, nil
}

// Delete detaches and deletes the node with the given id.
func (s *Neo4jStore) Delete(ctx context.Context, id string) (models.Ack, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (t:Task {id: $id}) DETACH DELETE t",
			map[string]any{"id": id},
		)
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summary.Counters().NodesDeleted(), nil
	})
	if err != nil {
		return models.Ack{}, err
	}
	return models.Ack{ID: id, Affected: deleted.(int)}, nil
}

// Close closes the driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func taskFromRecord(record *neo4j.Record) (models.Task, error) {
	id, ok := record.Values[0].(string)
	if !ok {
		return models.Task{}, fmt.Errorf("task id has type %T", record.Values[0])
	}
	// nodes written by other tools may lack name or completed
	name, _ := record.Values[1].(string)
	completed, _ := record.Values[2].(bool)
	return models.Task{ID: id, Name: name, Completed: completed}, nil
}

package store

import (
	"context"
	"fmt"
	"log/slog"

	"tasklist/app/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgPool is the subset of *pgxpool.Pool the store uses.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

var _ pgPool = (*pgxpool.Pool)(nil)

// PostgresStore is a PostgreSQL-backed task store.
type PostgresStore struct {
	pool   pgPool
	logger *slog.Logger
}

// NewPostgresStore wraps an open pool.
func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, logger: logger}
}

// EnsureTable creates the tasks table if it doesn't exist.
func (s *PostgresStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL DEFAULT '',
			completed BOOLEAN NOT NULL DEFAULT FALSE
		)`)
	return err
}

// Scan retrieves all tasks.
func (s *PostgresStore) Scan(ctx context.Context) ([]models.Task, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, completed FROM tasks`)
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Name, &t.Completed); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug("postgres scan", "count", len(tasks))
	return tasks, nil
}

// Put inserts a new task.
func (s *PostgresStore) Put(ctx context.Context, task models.Task) (models.Task, error) {
	task.ID = newID()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tasks (id, name, completed) VALUES ($1, $2, $3)`,
		task.ID, task.Name, task.Completed)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// Update overwrites name and completed of an existing row.
func (s *PostgresStore) Update(ctx context.Context, task models.Task) (models.Ack, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET name = $2, completed = $3 WHERE id = $1`,
		task.ID, task.Name, task.Completed)
	if err != nil {
		return models.Ack{}, fmt.Errorf("update task: %w", err)
	}
	return models.Ack{ID: task.ID, Affected: int(tag.RowsAffected())}, nil
}

// Delete removes a task by id.
func (s *PostgresStore) Delete(ctx context.Context, id string) (models.Ack, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return models.Ack{}, fmt.Errorf("delete task: %w", err)
	}
	return models.Ack{ID: id, Affected: int(tag.RowsAffected())}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

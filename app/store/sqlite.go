package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"tasklist/app/models"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL DEFAULT '',
	completed INTEGER NOT NULL DEFAULT 0
)`

// SQLiteStore keeps tasks in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens path (":memory:" works) and creates the tasks table.
func NewSQLiteStore(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tasks table: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Scan retrieves all tasks.
func (s *SQLiteStore) Scan(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, completed FROM tasks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Name, &t.Completed); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug("sqlite scan", "count", len(tasks))
	return tasks, nil
}

// Put inserts a task under a new id.
func (s *SQLiteStore) Put(ctx context.Context, task models.Task) (models.Task, error) {
	task.ID = newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, name, completed) VALUES (?, ?, ?)`,
		task.ID, task.Name, task.Completed,
	)
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Update overwrites name and completed for an existing id.
func (s *SQLiteStore) Update(ctx context.Context, task models.Task) (models.Ack, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET name = ?, completed = ? WHERE id = ?`,
		task.Name, task.Completed, task.ID,
	)
	if err != nil {
		return models.Ack{}, err
	}
	return ackFromResult(task.ID, res)
}

// Delete removes a task by id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (models.Ack, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return models.Ack{}, err
	}
	return ackFromResult(id, res)
}

// Close closes the database handle.
func (s *SQLiteStore) Close(context.Context) error {
	return s.db.Close()
}

func ackFromResult(id string, res sql.Result) (models.Ack, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return models.Ack{}, err
	}
	return models.Ack{ID: id, Affected: int(n)}, nil
}

package client

import (
	"context"
	"strings"
	"sync"

	"tasklist/app/apperrors"
	"tasklist/app/models"
)

// TaskAPI is what a Board needs from the task API.
type TaskAPI interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, name string, completed bool) (models.Task, error)
	Update(ctx context.Context, task models.Task) (models.Ack, error)
	Delete(ctx context.Context, id string) (models.Ack, error)
}

var _ TaskAPI = (*TaskClient)(nil)

// Board is the client's view of the task list. Every mutation is followed
// by a full re-fetch, so the view never holds state the server has not
// confirmed. Actions run one at a time.
type Board struct {
	api TaskAPI

	mu    sync.Mutex
	tasks []models.Task
}

// NewBoard creates an empty board over api.
func NewBoard(api TaskAPI) *Board {
	return &Board{api: api}
}

// Tasks returns the tasks from the last successful fetch.
func (b *Board) Tasks() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Load replaces the view with the server's list.
func (b *Board) Load(ctx context.Context) ([]models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refetch(ctx)
}

// Add creates an incomplete task named name.
func (b *Board) Add(ctx context.Context, name string) ([]models.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("task name cannot be empty", nil)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.api.Create(ctx, name, false); err != nil {
		return nil, err
	}
	return b.refetch(ctx)
}

// Toggle flips the completion flag of the task with id.
func (b *Board) Toggle(ctx context.Context, id string) ([]models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	task, err := b.find(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Completed = !task.Completed
	if _, err := b.api.Update(ctx, task); err != nil {
		return nil, err
	}
	return b.refetch(ctx)
}

// Rename changes the name of the task with id, keeping its completion flag.
func (b *Board) Rename(ctx context.Context, id, name string) ([]models.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("task name cannot be empty", nil)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	task, err := b.find(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Name = name
	if _, err := b.api.Update(ctx, task); err != nil {
		return nil, err
	}
	return b.refetch(ctx)
}

// Remove deletes the task with id. Removing an unknown id is not an error.
func (b *Board) Remove(ctx context.Context, id string) ([]models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.api.Delete(ctx, id); err != nil {
		return nil, err
	}
	return b.refetch(ctx)
}

func (b *Board) refetch(ctx context.Context) ([]models.Task, error) {
	tasks, err := b.api.List(ctx)
	if err != nil {
		return nil, err
	}
	b.tasks = tasks
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out, nil
}

// find looks id up in the current view, loading the view first if it has
// never been fetched. Callers hold b.mu.
func (b *Board) find(ctx context.Context, id string) (models.Task, error) {
	if b.tasks == nil {
		if _, err := b.refetch(ctx); err != nil {
			return models.Task{}, err
		}
	}
	for _, t := range b.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, apperrors.NewNotFoundError("task " + id)
}

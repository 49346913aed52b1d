package services

import (
	"context"
	"log/slog"

	"tasklist/app/apperrors"
	"tasklist/app/models"
	"tasklist/app/store"
)

// TaskService handles task-related operations.
type TaskService struct {
	store  store.TaskStore
	logger *slog.Logger
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(s store.TaskStore, logger *slog.Logger) *TaskService {
	return &TaskService{store: s, logger: logger}
}

// GetTasks retrieves all tasks.
func (s *TaskService) GetTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.store.Scan(ctx)
	if err != nil {
		s.logger.Error("scan failed", "err", err)
		return nil, apperrors.NewStoreError("fetching", err)
	}
	return tasks, nil
}

// CreateTask stores a new task. Any id on the input is discarded; the store
// assigns one.
func (s *TaskService) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	task.ID = ""
	created, err := s.store.Put(ctx, task)
	if err != nil {
		s.logger.Error("put failed", "err", err)
		return models.Task{}, apperrors.NewStoreError("creating", err)
	}
	s.logger.Info("task created", "id", created.ID)
	return created, nil
}

// UpdateTask replaces name and completed of the task with task.ID.
// There is no existence check.
func (s *TaskService) UpdateTask(ctx context.Context, task models.Task) (models.Ack, error) {
	if task.ID == "" {
		return models.Ack{}, apperrors.NewValidationError("id is required", nil)
	}
	ack, err := s.store.Update(ctx, task)
	if err != nil {
		s.logger.Error("update failed", "id", task.ID, "err", err)
		return models.Ack{}, apperrors.NewStoreError("updating", err)
	}
	s.logger.Info("task updated", "id", task.ID, "affected", ack.Affected)
	return ack, nil
}

// DeleteTask removes a task by id.
func (s *TaskService) DeleteTask(ctx context.Context, id string) (models.Ack, error) {
	if id == "" {
		return models.Ack{}, apperrors.NewValidationError("id is required", nil)
	}
	ack, err := s.store.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete failed", "id", id, "err", err)
		return models.Ack{}, apperrors.NewStoreError("deleting", err)
	}
	s.logger.Info("task deleted", "id", id, "affected", ack.Affected)
	return ack, nil
}

package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"tasklist/app/apperrors"
	"tasklist/app/models"
	"tasklist/app/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTaskService(t *testing.T) *TaskService {
	t.Helper()
	s, err := store.NewSQLiteStore(context.Background(), ":memory:", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	return NewTaskService(s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// failingStore reports err from every operation.
type failingStore struct{ err error }

func (f failingStore) Scan(context.Context) ([]models.Task, error) { return nil, f.err }
func (f failingStore) Put(context.Context, models.Task) (models.Task, error) {
	return models.Task{}, f.err
}
func (f failingStore) Update(context.Context, models.Task) (models.Ack, error) {
	return models.Ack{}, f.err
}
func (f failingStore) Delete(context.Context, string) (models.Ack, error) { return models.Ack{}, f.err }
func (f failingStore) Close(context.Context) error                        { return nil }

func TestTaskService_CreateThenList(t *testing.T) {
	tests := []struct {
		name string
		task models.Task
	}{
		{name: "should create open task", task: models.Task{Name: "Buy milk"}},
		{name: "should create completed task", task: models.Task{Name: "Walk dog", Completed: true}},
		{name: "should accept empty name", task: models.Task{Name: ""}},
		{name: "should ignore client id", task: models.Task{ID: "42", Name: "Pay rent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := setupTaskService(t)
			ctx := context.Background()

			created, err := service.CreateTask(ctx, tt.task)
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.NotEqual(t, "42", created.ID)

			tasks, err := service.GetTasks(ctx)
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.Equal(t, tt.task.Name, tasks[0].Name)
			assert.Equal(t, tt.task.Completed, tasks[0].Completed)
		})
	}
}

func TestTaskService_UpdateTask(t *testing.T) {
	service := setupTaskService(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, models.Task{Name: "Buy milk"})
	require.NoError(t, err)

	ack, err := service.UpdateTask(ctx, models.Task{ID: created.ID, Name: "Buy milk", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, ack.Affected)

	tasks, err := service.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	ack, err = service.UpdateTask(ctx, models.Task{ID: "missing", Name: "ghost"})
	require.NoError(t, err)
	assert.Equal(t, 0, ack.Affected)

	tasks, err = service.GetTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskService_UpdateRequiresID(t *testing.T) {
	service := setupTaskService(t)

	_, err := service.UpdateTask(context.Background(), models.Task{Name: "no id"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
}

func TestTaskService_DeleteTask(t *testing.T) {
	service := setupTaskService(t)
	ctx := context.Background()

	keep, err := service.CreateTask(ctx, models.Task{Name: "keep"})
	require.NoError(t, err)
	drop, err := service.CreateTask(ctx, models.Task{Name: "drop"})
	require.NoError(t, err)

	ack, err := service.DeleteTask(ctx, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Ack{ID: drop.ID, Affected: 1}, ack)

	ack, err = service.DeleteTask(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, ack.Affected)

	tasks, err := service.GetTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Task{keep}, tasks)
}

func TestTaskService_StoreFailures(t *testing.T) {
	cause := errors.New("throttled")
	service := NewTaskService(failingStore{err: cause}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() error
		message string
	}{
		{"list", func() error { _, err := service.GetTasks(ctx); return err }, "error fetching tasks: throttled"},
		{"create", func() error { _, err := service.CreateTask(ctx, models.Task{}); return err }, "error creating tasks: throttled"},
		{"update", func() error { _, err := service.UpdateTask(ctx, models.Task{ID: "1"}); return err }, "error updating tasks: throttled"},
		{"delete", func() error { _, err := service.DeleteTask(ctx, "1"); return err }, "error deleting tasks: throttled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.ErrorIs(t, err, cause)
			assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeStore))
		})
	}
}

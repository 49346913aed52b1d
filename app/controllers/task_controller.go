package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"tasklist/app/apperrors"
	"tasklist/app/models"
	"tasklist/app/services"

	"github.com/gorilla/mux"
)

// TaskController handles HTTP requests for tasks.
type TaskController struct {
	Service *services.TaskService
	logger  *slog.Logger
}

// NewTaskController creates a new TaskController.
func NewTaskController(service *services.TaskService, logger *slog.Logger) *TaskController {
	return &TaskController{Service: service, logger: logger}
}

// Index handles GET / as a liveness check.
func (c *TaskController) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Hello World!"))
}

// GetTasks handles GET /task.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Service.GetTasks(r.Context())
	if err != nil {
		c.writeError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, tasks)
}

// CreateTask handles POST /task.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		c.writeError(w, apperrors.NewValidationError("invalid request payload", err))
		return
	}

	newTask, err := c.Service.CreateTask(r.Context(), task)
	if err != nil {
		c.writeError(w, err)
		return
	}
	c.writeJSON(w, http.StatusCreated, newTask)
}

// UpdateTask handles PUT /task. The id travels in the body.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		c.writeError(w, apperrors.NewValidationError("invalid request payload", err))
		return
	}

	ack, err := c.Service.UpdateTask(r.Context(), task)
	if err != nil {
		c.writeError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, ack)
}

// DeleteTask handles DELETE /task/{id}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ack, err := c.Service.DeleteTask(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.writeError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, ack)
}

// NotFound answers unknown routes with the normalized error body.
func (c *TaskController) NotFound(w http.ResponseWriter, r *http.Request) {
	c.writeError(w, apperrors.NewNotFoundError("route "+r.URL.Path))
}

// MethodNotAllowed answers known routes hit with the wrong verb.
func (c *TaskController) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeErrorBody(w, c.logger, http.StatusMethodNotAllowed, apperrors.CodeMethodNotAllowed,
		"method "+r.Method+" not allowed on "+r.URL.Path)
}

package routes

import (
	"log/slog"
	"net/http"
	"time"

	"tasklist/app/controllers"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController) {
	router.HandleFunc("/", taskController.Index).Methods(http.MethodGet)
	router.HandleFunc("/task", taskController.GetTasks).Methods(http.MethodGet)
	router.HandleFunc("/task", taskController.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/task", taskController.UpdateTask).Methods(http.MethodPut)
	router.HandleFunc("/task/{id}", taskController.DeleteTask).Methods(http.MethodDelete)

	router.NotFoundHandler = http.HandlerFunc(taskController.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(taskController.MethodNotAllowed)
}

// NewHandler builds the complete HTTP handler. Development mode allows any
// origin, for a client served from another port.
func NewHandler(taskController *controllers.TaskController, logger *slog.Logger, development bool) http.Handler {
	router := mux.NewRouter()
	RegisterRoutes(router, taskController)
	// wrapping the whole router also logs NotFound and MethodNotAllowed answers
	logged := requestLogger(logger)(router)

	if !development {
		return logged
	}
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(logged)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

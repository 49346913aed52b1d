package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"tasklist/app/apperrors"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *TaskController) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Error("write json", "err", err)
	}
}

func (c *TaskController) writeError(w http.ResponseWriter, err error) {
	writeErrorBody(w, c.logger, apperrors.HTTPStatus(err), apperrors.GetErrorCode(err), err.Error())
}

func writeErrorBody(w http.ResponseWriter, logger *slog.Logger, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := ErrorResponse{Status: status, Code: code, Message: message}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("write error body", "err", err)
	}
}

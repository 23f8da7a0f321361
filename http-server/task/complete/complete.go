package complete

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"matchplanner/internal/middleware/auth"
	"matchplanner/internal/storage"
)

type TaskCompleter interface {
	CompleteTask(ctx context.Context, taskID, userID string, now time.Time) error
	ReopenTask(ctx context.Context, taskID string) error
	CompleteTasks(ctx context.Context, taskIDs []string, userID string, now time.Time) error
}

// CompleteTask marks the task at {id} done, attributing the completion to
// the authenticated user. Completing an already-done task just refreshes
// the pair.
func CompleteTask(log *slog.Logger, service TaskCompleter, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.task.CompleteTask"

		id := chi.URLParam(r, "id")

		user := auth.FromContext(r.Context())
		if user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := service.CompleteTask(ctx, id, user.UserID, now()); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Task not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to complete task")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{"status": storage.TaskStatusDone})
	}
}

// ReopenTask clears completed_at and completed_by together; a task is never
// left with one half of the pair.
func ReopenTask(log *slog.Logger, service TaskCompleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.task.ReopenTask"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := service.ReopenTask(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Task not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to reopen task")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{"status": storage.TaskStatusTodo})
	}
}

func CompleteTasks(log *slog.Logger, service TaskCompleter, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.task.CompleteTasks"

		var req struct {
			TaskIDs []string `json:"task_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if len(req.TaskIDs) == 0 {
			http.Error(w, "task_ids is required", http.StatusBadRequest)
			return
		}

		user := auth.FromContext(r.Context())
		if user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		if err := service.CompleteTasks(ctx, req.TaskIDs, user.UserID, now()); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to complete tasks")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]int{"completed": len(req.TaskIDs)})
	}
}

package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"matchplanner/internal/middleware/auth"
	"matchplanner/internal/storage"
)

type CommentCreateProvider interface {
	GetEventTask(ctx context.Context, id string) (*storage.EventTask, error)
	CreateTaskComment(ctx context.Context, c *storage.TaskComment) error
}

// SaveComment posts a comment on the task at {id}, attributed to the
// authenticated user.
func SaveComment(log *slog.Logger, comments CommentCreateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.comment.SaveComment"

		taskID := chi.URLParam(r, "id")

		var req struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			http.Error(w, "content is required", http.StatusBadRequest)
			return
		}

		user := auth.FromContext(r.Context())
		if user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if _, err := comments.GetEventTask(ctx, taskID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Task not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("task_id", taskID), slog.String("error", err.Error())).Error("Failed to fetch task")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		comment := &storage.TaskComment{
			TaskID:       taskID,
			AuthorUserID: user.UserID,
			Content:      req.Content,
		}
		if err := comments.CreateTaskComment(ctx, comment); err != nil {
			log.With(slog.String("op", op), slog.String("task_id", taskID), slog.String("error", err.Error())).Error("Failed to create comment")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, comment)
	}
}

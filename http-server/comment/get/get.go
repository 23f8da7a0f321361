package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"matchplanner/internal/storage"
)

type CommentProvider interface {
	GetTaskComments(ctx context.Context, taskID string) ([]*storage.CommentWithAuthor, error)
}

// GetTaskComments lists the comments on the task at {id}, oldest first,
// authors resolved.
func GetTaskComments(log *slog.Logger, comments CommentProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.comment.GetTaskComments"

		taskID := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := comments.GetTaskComments(ctx, taskID)
		if err != nil {
			log.With(slog.String("op", op), slog.String("task_id", taskID), slog.String("error", err.Error())).Error("Failed to fetch comments")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if result == nil {
			result = []*storage.CommentWithAuthor{}
		}
		render.JSON(w, r, result)
	}
}

package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"matchplanner/internal/middleware/auth"
	"matchplanner/internal/storage"
)

type CommentDeleteProvider interface {
	GetTaskComment(ctx context.Context, id string) (*storage.TaskComment, error)
	DeleteTaskComment(ctx context.Context, id string) error
}

// DeleteComment removes a comment. Only its author or an admin may do so.
func DeleteComment(log *slog.Logger, comments CommentDeleteProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.comment.DeleteComment"

		id := chi.URLParam(r, "id")

		user := auth.FromContext(r.Context())
		if user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		comment, err := comments.GetTaskComment(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Comment not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch comment")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if comment.AuthorUserID != user.UserID && !user.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if err := comments.DeleteTaskComment(ctx, id); err != nil {
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to delete comment")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}

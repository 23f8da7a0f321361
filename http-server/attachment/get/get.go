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

type AttachmentProvider interface {
	GetTaskAttachments(ctx context.Context, taskID string) ([]*storage.Attachment, error)
	GetCommentAttachments(ctx context.Context, commentID string) ([]*storage.Attachment, error)
}

func GetTaskAttachments(log *slog.Logger, attachments AttachmentProvider) http.HandlerFunc {
	return listAttachments(log, "handlers.attachment.GetTaskAttachments", attachments.GetTaskAttachments)
}

func GetCommentAttachments(log *slog.Logger, attachments AttachmentProvider) http.HandlerFunc {
	return listAttachments(log, "handlers.attachment.GetCommentAttachments", attachments.GetCommentAttachments)
}

func listAttachments(log *slog.Logger, op string, list func(ctx context.Context, id string) ([]*storage.Attachment, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := list(ctx, id)
		if err != nil {
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch attachments")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if result == nil {
			result = []*storage.Attachment{}
		}
		render.JSON(w, r, result)
	}
}

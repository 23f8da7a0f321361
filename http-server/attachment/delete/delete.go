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

type AttachmentDeleteProvider interface {
	GetAttachment(ctx context.Context, id string) (*storage.Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error
}

type FileDeleter interface {
	Delete(ctx context.Context, fileID string) error
}

// DeleteAttachment removes the metadata row and the Drive file. Only the
// uploader or an admin may delete. A Drive failure after the row is gone is
// logged but not surfaced; the row is the source of truth.
func DeleteAttachment(log *slog.Logger, attachments AttachmentDeleteProvider, files FileDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.attachment.DeleteAttachment"

		id := chi.URLParam(r, "id")

		user := auth.FromContext(r.Context())
		if user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		attachment, err := attachments.GetAttachment(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Attachment not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch attachment")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if attachment.UploadedBy != user.UserID && !user.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if err := attachments.DeleteAttachment(ctx, id); err != nil {
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to delete attachment")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if err := files.Delete(ctx, attachment.DriveFileID); err != nil {
			log.With(slog.String("op", op), slog.String("file_id", attachment.DriveFileID), slog.String("error", err.Error())).Warn("Failed to delete Drive file")
		}

		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}

package upload

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"matchplanner/internal/drive"
	"matchplanner/internal/middleware/auth"
	"matchplanner/internal/storage"
)

// Drive caps single uploads at 50MB; larger files belong in a shared folder,
// not on a task.
const maxUploadBytes = 50 << 20

type AttachmentCreateProvider interface {
	CreateAttachment(ctx context.Context, a *storage.Attachment) error
}

type Uploader interface {
	Upload(ctx context.Context, data []byte, fileName, mimeType string) (*drive.UploadResult, error)
	Delete(ctx context.Context, fileID string) error
}

// UploadAttachment accepts a multipart upload and stores the file on Google
// Drive, then records the attachment row. Exactly one of the task_id and
// comment_id form fields must be set. If the row insert fails the Drive file
// is removed again so no orphan is left behind.
func UploadAttachment(log *slog.Logger, attachments AttachmentCreateProvider, files Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.attachment.UploadAttachment"

		user := auth.FromContext(r.Context())
		if user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "File too large: limit is 50MB", http.StatusRequestEntityTooLarge)
			return
		}

		taskID := r.FormValue("task_id")
		commentID := r.FormValue("comment_id")
		if (taskID == "") == (commentID == "") {
			http.Error(w, "exactly one of task_id and comment_id is required", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to read upload")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		result, err := files.Upload(ctx, data, header.Filename, mimeType)
		if err != nil {
			log.With(slog.String("op", op), slog.String("file", header.Filename), slog.String("error", err.Error())).Error("Drive upload failed")
			http.Error(w, "Failed to store file", http.StatusBadGateway)
			return
		}

		attachment := &storage.Attachment{
			FileName:     header.Filename,
			FileSize:     int64(len(data)),
			MimeType:     mimeType,
			DriveFileID:  result.FileID,
			WebViewLink:  &result.WebViewLink,
			DownloadLink: &result.DownloadLink,
			UploadedBy:   user.UserID,
		}
		if taskID != "" {
			attachment.TaskID = &taskID
		} else {
			attachment.CommentID = &commentID
		}

		if err := attachments.CreateAttachment(ctx, attachment); err != nil {
			if delErr := files.Delete(ctx, result.FileID); delErr != nil {
				log.With(slog.String("op", op), slog.String("file_id", result.FileID), slog.String("error", delErr.Error())).Error("Failed to clean up Drive file")
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to record attachment")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Attachment uploaded",
			slog.String("file", header.Filename),
			slog.Int64("size", attachment.FileSize),
		)

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, attachment)
	}
}

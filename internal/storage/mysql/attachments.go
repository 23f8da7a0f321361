package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"matchplanner/internal/storage"
)

const attachmentColumns = "id, task_id, comment_id, file_name, file_size, mime_type, " +
	"google_drive_file_id, google_drive_web_view_link, google_drive_download_link, uploaded_by, created_at, updated_at"

func scanAttachment(row interface{ Scan(...interface{}) error }) (*storage.Attachment, error) {
	a := &storage.Attachment{}
	err := row.Scan(&a.ID, &a.TaskID, &a.CommentID, &a.FileName, &a.FileSize, &a.MimeType,
		&a.DriveFileID, &a.WebViewLink, &a.DownloadLink, &a.UploadedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Storage) GetAttachment(ctx context.Context, id string) (*storage.Attachment, error) {
	const op = "storage.mysql.GetAttachment"

	query := fmt.Sprintf("SELECT %s FROM attachments WHERE id = ?", attachmentColumns)

	a, err := scanAttachment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: attachment %s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func (s *Storage) GetTaskAttachments(ctx context.Context, taskID string) ([]*storage.Attachment, error) {
	const op = "storage.mysql.GetTaskAttachments"

	stmt := fmt.Sprintf("SELECT %s FROM attachments WHERE task_id = ? ORDER BY created_at ASC", attachmentColumns)
	return s.queryAttachments(ctx, op, stmt, taskID)
}

func (s *Storage) GetCommentAttachments(ctx context.Context, commentID string) ([]*storage.Attachment, error) {
	const op = "storage.mysql.GetCommentAttachments"

	stmt := fmt.Sprintf("SELECT %s FROM attachments WHERE comment_id = ? ORDER BY created_at ASC", attachmentColumns)
	return s.queryAttachments(ctx, op, stmt, commentID)
}

func (s *Storage) queryAttachments(ctx context.Context, op, stmt string, arg interface{}) ([]*storage.Attachment, error) {
	rows, err := s.db.QueryContext(ctx, stmt, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var attachments []*storage.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return attachments, nil
}

// CreateAttachment inserts the metadata row. The parent check (task XOR
// comment) belongs to the handler; the schema enforces it too.
func (s *Storage) CreateAttachment(ctx context.Context, a *storage.Attachment) error {
	const op = "storage.mysql.CreateAttachment"

	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	stmt := `
		INSERT INTO attachments (id, task_id, comment_id, file_name, file_size, mime_type,
		                         google_drive_file_id, google_drive_web_view_link, google_drive_download_link, uploaded_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, stmt, a.ID, a.TaskID, a.CommentID, a.FileName, a.FileSize, a.MimeType,
		a.DriveFileID, a.WebViewLink, a.DownloadLink, a.UploadedBy)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) DeleteAttachment(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteAttachment"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

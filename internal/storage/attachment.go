package storage

import "time"

// Attachment points at a file stored externally on Google Drive. Attached to
// exactly one of a task or a comment.
type Attachment struct {
	ID           string    `json:"id"`
	TaskID       *string   `json:"task_id"`
	CommentID    *string   `json:"comment_id"`
	FileName     string    `json:"file_name"`
	FileSize     int64     `json:"file_size"`
	MimeType     string    `json:"mime_type"`
	DriveFileID  string    `json:"google_drive_file_id"`
	WebViewLink  *string   `json:"google_drive_web_view_link"`
	DownloadLink *string   `json:"google_drive_download_link"`
	UploadedBy   string    `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package storage

import "time"

type TaskComment struct {
	ID           string    `json:"id"`
	TaskID       string    `json:"task_id"`
	AuthorUserID string    `json:"author_user_id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

type CommentWithAuthor struct {
	TaskComment
	Author *UserProfile `json:"author"`
}

package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"matchplanner/internal/storage"
)

// GetTaskComments returns a task's comments oldest first, with authors
// resolved. Comments whose author profile is gone keep a stub author.
func (s *Storage) GetTaskComments(ctx context.Context, taskID string) ([]*storage.CommentWithAuthor, error) {
	const op = "storage.mysql.GetTaskComments"

	stmt := `
		SELECT id, task_id, author_user_id, content, created_at
		FROM task_comments
		WHERE task_id = ?
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, stmt, taskID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var comments []*storage.CommentWithAuthor
	for rows.Next() {
		c := &storage.CommentWithAuthor{}
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorUserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	for _, c := range comments {
		author, err := s.GetUserProfile(ctx, c.AuthorUserID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
			author = &storage.UserProfile{UserID: c.AuthorUserID}
		}
		c.Author = author
	}

	return comments, nil
}

func (s *Storage) GetTaskComment(ctx context.Context, id string) (*storage.TaskComment, error) {
	const op = "storage.mysql.GetTaskComment"

	query := "SELECT id, task_id, author_user_id, content, created_at FROM task_comments WHERE id = ?"

	c := &storage.TaskComment{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.TaskID, &c.AuthorUserID, &c.Content, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: comment %s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *Storage) CreateTaskComment(ctx context.Context, c *storage.TaskComment) error {
	const op = "storage.mysql.CreateTaskComment"

	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	stmt := "INSERT INTO task_comments (id, task_id, author_user_id, content) VALUES (?, ?, ?, ?)"

	if _, err := s.db.ExecContext(ctx, stmt, c.ID, c.TaskID, c.AuthorUserID, c.Content); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) DeleteTaskComment(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteTaskComment"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM task_comments WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

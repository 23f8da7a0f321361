package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"matchplanner/internal/storage"
)

func (s *Storage) GetEventPosts(ctx context.Context, eventID string) ([]*storage.EventPost, error) {
	const op = "storage.mysql.GetEventPosts"

	cols := "id, event_id, name, default_user_id, default_responsible_name, position"
	if s.caps.PostLinks {
		cols += ", template_post_id"
	}
	stmt := fmt.Sprintf("SELECT %s FROM event_posts WHERE event_id = ? ORDER BY position", cols)

	rows, err := s.db.QueryContext(ctx, stmt, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var posts []*storage.EventPost
	for rows.Next() {
		p := &storage.EventPost{}
		dest := []interface{}{&p.ID, &p.EventID, &p.Name, &p.DefaultUserID, &p.DefaultResponsibleName, &p.Position}
		if s.caps.PostLinks {
			dest = append(dest, &p.TemplatePostID)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return posts, nil
}

func (s *Storage) GetEventPost(ctx context.Context, id string) (*storage.EventPost, error) {
	const op = "storage.mysql.GetEventPost"

	cols := "id, event_id, name, default_user_id, default_responsible_name, position"
	if s.caps.PostLinks {
		cols += ", template_post_id"
	}
	query := fmt.Sprintf("SELECT %s FROM event_posts WHERE id = ?", cols)

	p := &storage.EventPost{}
	dest := []interface{}{&p.ID, &p.EventID, &p.Name, &p.DefaultUserID, &p.DefaultResponsibleName, &p.Position}
	if s.caps.PostLinks {
		dest = append(dest, &p.TemplatePostID)
	}
	if err := s.db.QueryRowContext(ctx, query, id).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: event post %s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Storage) CreateEventPost(ctx context.Context, p *storage.EventPost) error {
	const op = "storage.mysql.CreateEventPost"

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	if s.caps.PostLinks {
		stmt := `
			INSERT INTO event_posts (id, event_id, name, default_user_id, default_responsible_name, position, template_post_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		if _, err := s.db.ExecContext(ctx, stmt, p.ID, p.EventID, p.Name, p.DefaultUserID, p.DefaultResponsibleName, p.Position, p.TemplatePostID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	stmt := `
		INSERT INTO event_posts (id, event_id, name, default_user_id, default_responsible_name, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, stmt, p.ID, p.EventID, p.Name, p.DefaultUserID, p.DefaultResponsibleName, p.Position); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) UpdateEventPost(ctx context.Context, p *storage.EventPost) error {
	const op = "storage.mysql.UpdateEventPost"

	var (
		stmt string
		args []interface{}
	)
	if s.caps.PostLinks {
		stmt = `
			UPDATE event_posts
			SET name = ?, default_user_id = ?, default_responsible_name = ?, position = ?, template_post_id = ?
			WHERE id = ?
		`
		args = []interface{}{p.Name, p.DefaultUserID, p.DefaultResponsibleName, p.Position, p.TemplatePostID, p.ID}
	} else {
		stmt = `
			UPDATE event_posts
			SET name = ?, default_user_id = ?, default_responsible_name = ?, position = ?
			WHERE id = ?
		`
		args = []interface{}{p.Name, p.DefaultUserID, p.DefaultResponsibleName, p.Position, p.ID}
	}

	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: event post %s: %w", op, p.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteEventPost removes a post; its tasks cascade in the schema.
func (s *Storage) DeleteEventPost(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteEventPost"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM event_posts WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) GetEventTask(ctx context.Context, id string) (*storage.EventTask, error) {
	const op = "storage.mysql.GetEventTask"

	cols := taskColumns(s.caps.TaskLinks)
	query := fmt.Sprintf("SELECT %s FROM event_tasks WHERE id = ?", cols)

	t := &storage.EventTask{}
	if err := s.db.QueryRowContext(ctx, query, id).Scan(taskDest(t, s.caps.TaskLinks)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: task %s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (s *Storage) GetEventTasks(ctx context.Context, eventPostID string) ([]*storage.EventTask, error) {
	const op = "storage.mysql.GetEventTasks"

	cols := taskColumns(s.caps.TaskLinks)
	stmt := fmt.Sprintf("SELECT %s FROM event_tasks WHERE event_post_id = ? ORDER BY position", cols)

	rows, err := s.db.QueryContext(ctx, stmt, eventPostID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tasks []*storage.EventTask
	for rows.Next() {
		t := &storage.EventTask{}
		if err := rows.Scan(taskDest(t, s.caps.TaskLinks)...); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return tasks, nil
}

func taskColumns(withLinks bool) string {
	cols := "id, event_post_id, name, assignee_user_id, due_date, alert_date, reference_date, " +
		"status, completed_at, completed_by, position, created_at, responsible_name"
	if withLinks {
		cols += ", template_task_id"
	}
	return cols
}

func taskDest(t *storage.EventTask, withLinks bool) []interface{} {
	dest := []interface{}{
		&t.ID, &t.EventPostID, &t.Name, &t.AssigneeUserID, &t.DueDate, &t.AlertDate, &t.ReferenceDate,
		&t.Status, &t.CompletedAt, &t.CompletedBy, &t.Position, &t.CreatedAt, &t.ResponsibleName,
	}
	if withLinks {
		dest = append(dest, &t.TemplateTaskID)
	}
	return dest
}

func (s *Storage) CreateEventTask(ctx context.Context, t *storage.EventTask) error {
	const op = "storage.mysql.CreateEventTask"

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = storage.TaskStatusTodo
	}

	if s.caps.TaskLinks {
		stmt := `
			INSERT INTO event_tasks (id, event_post_id, name, assignee_user_id, due_date, alert_date, reference_date,
			                         status, completed_at, completed_by, position, responsible_name, template_task_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := s.db.ExecContext(ctx, stmt, t.ID, t.EventPostID, t.Name, t.AssigneeUserID, t.DueDate, t.AlertDate, t.ReferenceDate,
			t.Status, t.CompletedAt, t.CompletedBy, t.Position, t.ResponsibleName, t.TemplateTaskID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	stmt := `
		INSERT INTO event_tasks (id, event_post_id, name, assignee_user_id, due_date, alert_date, reference_date,
		                         status, completed_at, completed_by, position, responsible_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, stmt, t.ID, t.EventPostID, t.Name, t.AssigneeUserID, t.DueDate, t.AlertDate, t.ReferenceDate,
		t.Status, t.CompletedAt, t.CompletedBy, t.Position, t.ResponsibleName)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) UpdateEventTask(ctx context.Context, t *storage.EventTask) error {
	const op = "storage.mysql.UpdateEventTask"

	var (
		stmt string
		args []interface{}
	)
	if s.caps.TaskLinks {
		stmt = `
			UPDATE event_tasks
			SET name = ?, assignee_user_id = ?, due_date = ?, alert_date = ?, reference_date = ?,
			    status = ?, position = ?, responsible_name = ?, template_task_id = ?
			WHERE id = ?
		`
		args = []interface{}{t.Name, t.AssigneeUserID, t.DueDate, t.AlertDate, t.ReferenceDate,
			t.Status, t.Position, t.ResponsibleName, t.TemplateTaskID, t.ID}
	} else {
		stmt = `
			UPDATE event_tasks
			SET name = ?, assignee_user_id = ?, due_date = ?, alert_date = ?, reference_date = ?,
			    status = ?, position = ?, responsible_name = ?
			WHERE id = ?
		`
		args = []interface{}{t.Name, t.AssigneeUserID, t.DueDate, t.AlertDate, t.ReferenceDate,
			t.Status, t.Position, t.ResponsibleName, t.ID}
	}

	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: event task %s: %w", op, t.ID, storage.ErrNotFound)
	}
	return nil
}

func (s *Storage) DeleteEventTask(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteEventTask"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM event_tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CompleteEventTask sets completed_at and completed_by together, never one
// without the other.
func (s *Storage) CompleteEventTask(ctx context.Context, taskID, userID string, at time.Time) error {
	const op = "storage.mysql.CompleteEventTask"

	stmt := "UPDATE event_tasks SET completed_at = ?, completed_by = ?, status = ? WHERE id = ?"

	res, err := s.db.ExecContext(ctx, stmt, at, userID, storage.TaskStatusDone, taskID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: task %s: %w", op, taskID, storage.ErrNotFound)
	}
	return nil
}

// ReopenEventTask clears the completion pair and returns the task to todo.
func (s *Storage) ReopenEventTask(ctx context.Context, taskID string) error {
	const op = "storage.mysql.ReopenEventTask"

	stmt := "UPDATE event_tasks SET completed_at = NULL, completed_by = NULL, status = ? WHERE id = ?"

	res, err := s.db.ExecContext(ctx, stmt, storage.TaskStatusTodo, taskID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: task %s: %w", op, taskID, storage.ErrNotFound)
	}
	return nil
}

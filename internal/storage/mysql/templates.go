package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"matchplanner/internal/storage"
)

func (s *Storage) GetTemplates(ctx context.Context, teamID string) ([]*storage.EventTemplate, error) {
	const op = "storage.mysql.GetTemplates"

	stmt := "SELECT id, team_id, name, description, created_by, created_at FROM event_templates"
	var args []interface{}
	if teamID != "" {
		stmt += " WHERE team_id = ?"
		args = append(args, teamID)
	}
	stmt += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var templates []*storage.EventTemplate
	for rows.Next() {
		t := &storage.EventTemplate{}
		if err := rows.Scan(&t.ID, &t.TeamID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return templates, nil
}

func (s *Storage) GetTemplate(ctx context.Context, id string) (*storage.EventTemplate, error) {
	const op = "storage.mysql.GetTemplate"

	query := "SELECT id, team_id, name, description, created_by, created_at FROM event_templates WHERE id = ?"

	t := &storage.EventTemplate{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.TeamID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: template %s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// GetTemplateDetails loads a template with its posts and tasks in position
// order and the default users resolved.
func (s *Storage) GetTemplateDetails(ctx context.Context, id string) (*storage.TemplateDetails, error) {
	const op = "storage.mysql.GetTemplateDetails"

	template, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &storage.TemplateDetails{EventTemplate: *template}
	if template.TeamID != nil {
		team, err := s.GetTeam(ctx, *template.TeamID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		details.Team = team
	}

	posts, err := s.GetTemplatePosts(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, post := range posts {
		pd := &storage.TemplatePostDetails{TemplatePost: *post}

		if post.DefaultUserID != nil {
			user, err := s.GetUserProfile(ctx, *post.DefaultUserID)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
			pd.DefaultUser = user
		}

		tasks, err := s.GetTemplateTasks(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		pd.Tasks = tasks

		details.Posts = append(details.Posts, pd)
	}

	return details, nil
}

func (s *Storage) CreateTemplate(ctx context.Context, t *storage.EventTemplate) error {
	const op = "storage.mysql.CreateTemplate"

	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	stmt := "INSERT INTO event_templates (id, team_id, name, description, created_by) VALUES (?, ?, ?, ?, ?)"

	if _, err := s.db.ExecContext(ctx, stmt, t.ID, t.TeamID, t.Name, t.Description, t.CreatedBy); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) UpdateTemplate(ctx context.Context, t *storage.EventTemplate) error {
	const op = "storage.mysql.UpdateTemplate"

	stmt := "UPDATE event_templates SET team_id = ?, name = ?, description = ? WHERE id = ?"

	res, err := s.db.ExecContext(ctx, stmt, t.TeamID, t.Name, t.Description, t.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: template %s: %w", op, t.ID, storage.ErrNotFound)
	}
	return nil
}

func (s *Storage) DeleteTemplate(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteTemplate"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM event_templates WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) GetTemplatePosts(ctx context.Context, templateID string) ([]*storage.TemplatePost, error) {
	const op = "storage.mysql.GetTemplatePosts"

	stmt := `
		SELECT id, template_id, name, default_user_id, default_responsible_name, position
		FROM template_posts
		WHERE template_id = ?
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, stmt, templateID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var posts []*storage.TemplatePost
	for rows.Next() {
		p := &storage.TemplatePost{}
		if err := rows.Scan(&p.ID, &p.TemplateID, &p.Name, &p.DefaultUserID, &p.DefaultResponsibleName, &p.Position); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return posts, nil
}

func (s *Storage) CreateTemplatePost(ctx context.Context, p *storage.TemplatePost) error {
	const op = "storage.mysql.CreateTemplatePost"

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	stmt := `
		INSERT INTO template_posts (id, template_id, name, default_user_id, default_responsible_name, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, stmt, p.ID, p.TemplateID, p.Name, p.DefaultUserID, p.DefaultResponsibleName, p.Position); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) UpdateTemplatePost(ctx context.Context, p *storage.TemplatePost) error {
	const op = "storage.mysql.UpdateTemplatePost"

	stmt := `
		UPDATE template_posts
		SET name = ?, default_user_id = ?, default_responsible_name = ?, position = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, stmt, p.Name, p.DefaultUserID, p.DefaultResponsibleName, p.Position, p.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: template post %s: %w", op, p.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteTemplatePost removes a post; its tasks cascade in the schema.
func (s *Storage) DeleteTemplatePost(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteTemplatePost"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM template_posts WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) GetTemplateTasks(ctx context.Context, templatePostID string) ([]*storage.TemplateTask, error) {
	const op = "storage.mysql.GetTemplateTasks"

	stmt := `
		SELECT id, template_post_id, name, default_due_offset_days, default_alert_offset_days,
		       default_user_id, default_responsible_name, position
		FROM template_tasks
		WHERE template_post_id = ?
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, stmt, templatePostID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tasks []*storage.TemplateTask
	for rows.Next() {
		t := &storage.TemplateTask{}
		err := rows.Scan(&t.ID, &t.TemplatePostID, &t.Name, &t.CriticalOffsetDays, &t.AlertOffsetDays,
			&t.DefaultUserID, &t.DefaultResponsibleName, &t.Position)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return tasks, nil
}

func (s *Storage) GetTemplateTask(ctx context.Context, id string) (*storage.TemplateTask, error) {
	const op = "storage.mysql.GetTemplateTask"

	query := `
		SELECT id, template_post_id, name, default_due_offset_days, default_alert_offset_days,
		       default_user_id, default_responsible_name, position
		FROM template_tasks
		WHERE id = ?
	`

	t := &storage.TemplateTask{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.TemplatePostID, &t.Name, &t.CriticalOffsetDays, &t.AlertOffsetDays,
		&t.DefaultUserID, &t.DefaultResponsibleName, &t.Position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: template task %s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (s *Storage) CreateTemplateTask(ctx context.Context, t *storage.TemplateTask) error {
	const op = "storage.mysql.CreateTemplateTask"

	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	stmt := `
		INSERT INTO template_tasks (id, template_post_id, name, default_due_offset_days, default_alert_offset_days,
		                            default_user_id, default_responsible_name, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, stmt, t.ID, t.TemplatePostID, t.Name, t.CriticalOffsetDays, t.AlertOffsetDays,
		t.DefaultUserID, t.DefaultResponsibleName, t.Position)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) UpdateTemplateTask(ctx context.Context, t *storage.TemplateTask) error {
	const op = "storage.mysql.UpdateTemplateTask"

	stmt := `
		UPDATE template_tasks
		SET name = ?, default_due_offset_days = ?, default_alert_offset_days = ?,
		    default_user_id = ?, default_responsible_name = ?, position = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, stmt, t.Name, t.CriticalOffsetDays, t.AlertOffsetDays,
		t.DefaultUserID, t.DefaultResponsibleName, t.Position, t.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: template task %s: %w", op, t.ID, storage.ErrNotFound)
	}
	return nil
}

func (s *Storage) DeleteTemplateTask(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteTemplateTask"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM template_tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

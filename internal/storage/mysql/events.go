package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"matchplanner/internal/storage"
)

// GetEvents lists a team's events ordered by date. Past events are hidden
// unless includePast is set; "past" is relative to the supplied day.
func (s *Storage) GetEvents(ctx context.Context, teamID string, includePast bool, today storage.Date) ([]*storage.Event, error) {
	const op = "storage.mysql.GetEvents"

	stmt := "SELECT id, team_id, template_id, name, description, event_date, created_by, created_at FROM events"
	var (
		conds []string
		args  []interface{}
	)
	if teamID != "" {
		conds = append(conds, "team_id = ?")
		args = append(args, teamID)
	}
	if !includePast {
		conds = append(conds, "event_date >= ?")
		args = append(args, today)
	}
	for i, cond := range conds {
		if i == 0 {
			stmt += " WHERE " + cond
		} else {
			stmt += " AND " + cond
		}
	}
	stmt += " ORDER BY event_date ASC"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var events []*storage.Event
	for rows.Next() {
		e := &storage.Event{}
		if err := rows.Scan(&e.ID, &e.TeamID, &e.TemplateID, &e.Name, &e.Description, &e.EventDate, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return events, nil
}

func (s *Storage) GetEvent(ctx context.Context, id string) (*storage.Event, error) {
	const op = "storage.mysql.GetEvent"

	query := "SELECT id, team_id, template_id, name, description, event_date, created_by, created_at FROM events WHERE id = ?"

	e := &storage.Event{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.TeamID, &e.TemplateID, &e.Name, &e.Description, &e.EventDate, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: event %s: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

// GetEventsByTemplate returns the template's events on or after the given
// date, the set synchronization is allowed to touch.
func (s *Storage) GetEventsByTemplate(ctx context.Context, templateID string, from storage.Date) ([]*storage.Event, error) {
	const op = "storage.mysql.GetEventsByTemplate"

	stmt := `
		SELECT id, team_id, template_id, name, description, event_date, created_by, created_at
		FROM events
		WHERE template_id = ? AND event_date >= ?
		ORDER BY event_date ASC
	`

	rows, err := s.db.QueryContext(ctx, stmt, templateID, from)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var events []*storage.Event
	for rows.Next() {
		e := &storage.Event{}
		if err := rows.Scan(&e.ID, &e.TeamID, &e.TemplateID, &e.Name, &e.Description, &e.EventDate, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return events, nil
}

// GetEventDetails loads the full event tree. The team/template lookups run
// in parallel with the posts load; the per-task detail lookups are
// independent rows and run concurrently too.
func (s *Storage) GetEventDetails(ctx context.Context, id string) (*storage.EventDetails, error) {
	const op = "storage.mysql.GetEventDetails"

	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &storage.EventDetails{Event: *event}

	var posts []*storage.EventPost

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		team, err := s.GetTeam(gCtx, event.TeamID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		details.Team = team
		return nil
	})
	g.Go(func() error {
		if event.TemplateID == nil {
			return nil
		}
		template, err := s.GetTemplate(gCtx, *event.TemplateID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		details.Template = template
		return nil
	})
	g.Go(func() error {
		var err error
		posts, err = s.GetEventPosts(gCtx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	details.Posts = make([]*storage.EventPostDetails, len(posts))

	g, gCtx = errgroup.WithContext(ctx)
	for i, post := range posts {
		g.Go(func() error {
			pd, err := s.loadPostDetails(gCtx, post)
			if err != nil {
				return err
			}
			details.Posts[i] = pd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return details, nil
}

func (s *Storage) loadPostDetails(ctx context.Context, post *storage.EventPost) (*storage.EventPostDetails, error) {
	pd := &storage.EventPostDetails{EventPost: *post}

	if post.DefaultUserID != nil {
		user, err := s.GetUserProfile(ctx, *post.DefaultUserID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		pd.DefaultUser = user
	}

	tasks, err := s.GetEventTasks(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	for _, task := range tasks {
		td := &storage.EventTaskDetails{EventTask: *task}

		if task.AssigneeUserID != nil {
			user, err := s.GetUserProfile(ctx, *task.AssigneeUserID)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
			td.Assignee = user
		}
		if task.CompletedBy != nil {
			user, err := s.GetUserProfile(ctx, *task.CompletedBy)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
			td.CompletedByUser = user
		}

		comments, err := s.GetTaskComments(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		td.Comments = comments

		pd.Tasks = append(pd.Tasks, td)
	}

	return pd, nil
}

func (s *Storage) CreateEvent(ctx context.Context, e *storage.Event) error {
	const op = "storage.mysql.CreateEvent"

	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	stmt := "INSERT INTO events (id, team_id, template_id, name, description, event_date, created_by) VALUES (?, ?, ?, ?, ?, ?, ?)"

	if _, err := s.db.ExecContext(ctx, stmt, e.ID, e.TeamID, e.TemplateID, e.Name, e.Description, e.EventDate, e.CreatedBy); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) UpdateEvent(ctx context.Context, e *storage.Event) error {
	const op = "storage.mysql.UpdateEvent"

	stmt := "UPDATE events SET name = ?, description = ?, event_date = ? WHERE id = ?"

	res, err := s.db.ExecContext(ctx, stmt, e.Name, e.Description, e.EventDate, e.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: event %s: %w", op, e.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteEvent removes an event; posts, tasks and comments cascade in the
// schema. Attachment binaries are the caller's side-effect.
func (s *Storage) DeleteEvent(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteEvent"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

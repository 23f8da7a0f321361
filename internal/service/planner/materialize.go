package planner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"matchplanner/internal/service/schedule"
	"matchplanner/internal/storage"
)

// EventShell holds the caller-supplied fields of an event about to be
// materialized from a template.
type EventShell struct {
	TeamID      string
	Name        string
	Description *string
	EventDate   storage.Date
	CreatedBy   *string
}

// Materialize creates a concrete event from a template: one event post per
// template post, one event task per template task, dates computed from the
// day-offsets against the event date. Posts and tasks are created in
// ascending position order so positions are deterministic on first read.
func (s *Service) Materialize(ctx context.Context, templateID string, shell EventShell) (*storage.Event, error) {
	const op = "service.planner.Materialize"

	template, err := s.storage.GetTemplateDetails(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch template: %w", op, err)
	}

	event := &storage.Event{
		ID:          uuid.NewString(),
		TeamID:      shell.TeamID,
		TemplateID:  &templateID,
		Name:        shell.Name,
		Description: shell.Description,
		EventDate:   shell.EventDate,
		CreatedBy:   shell.CreatedBy,
	}
	if err := s.storage.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("%s: create event: %w", op, err)
	}

	for _, tp := range sortedPosts(template.Posts) {
		post := &storage.EventPost{
			ID:                     uuid.NewString(),
			EventID:                event.ID,
			Name:                   tp.Name,
			DefaultUserID:          tp.DefaultUserID,
			DefaultResponsibleName: tp.DefaultResponsibleName,
			Position:               tp.Position,
		}
		if s.caps.PostLinks {
			ref := tp.ID
			post.TemplatePostID = &ref
		}
		if err := s.storage.CreateEventPost(ctx, post); err != nil {
			return nil, fmt.Errorf("%s: create post %q: %w", op, tp.Name, err)
		}

		for _, tt := range sortedTasks(tp.Tasks) {
			task := s.buildTask(post.ID, tt, &tp.TemplatePost, event.EventDate)
			if err := s.storage.CreateEventTask(ctx, task); err != nil {
				return nil, fmt.Errorf("%s: create task %q: %w", op, tt.Name, err)
			}
		}
	}

	return event, nil
}

// buildTask computes the concrete task for one template task. An absent
// alert offset falls back to the critical offset here, so the alert fires
// on the due day itself.
func (s *Service) buildTask(eventPostID string, tt *storage.TemplateTask, tp *storage.TemplatePost, eventDate storage.Date) *storage.EventTask {
	alertOffset := tt.CriticalOffsetDays
	if tt.AlertOffsetDays != nil {
		alertOffset = *tt.AlertOffsetDays
	}

	due := storage.NewDate(schedule.DateFromOffset(eventDate.Time, tt.CriticalOffsetDays))
	alert := storage.NewDate(schedule.DateFromOffset(eventDate.Time, alertOffset))

	responsible := tt.DefaultResponsibleName
	if responsible == nil {
		responsible = tp.DefaultResponsibleName
	}
	assignee := tt.DefaultUserID
	if assignee == nil {
		assignee = tp.DefaultUserID
	}

	task := &storage.EventTask{
		ID:              uuid.NewString(),
		EventPostID:     eventPostID,
		Name:            tt.Name,
		AssigneeUserID:  assignee,
		ResponsibleName: responsible,
		DueDate:         &due,
		AlertDate:       &alert,
		Status:          storage.TaskStatusTodo,
		Position:        tt.Position,
	}
	if s.caps.TaskLinks {
		ref := tt.ID
		task.TemplateTaskID = &ref
	}
	return task
}
